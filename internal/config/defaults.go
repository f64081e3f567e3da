package config

import (
	"time"

	"github.com/spf13/viper"
)

const sheetURLPrefix = "https://docs.google.com/spreadsheets/d/e/"

// DefaultSources are the published package sheets
var DefaultSources = []SourceConfig{
	{Name: "Flood Package-1", URL: sheetURLPrefix + "2PACX-1vQUvCNby9_znIiirFF8TFvaxJZOShZBlUpojKTpdEnQHxeyk6OMZxjN21r8dsBZOUNRc_cHFbcql7--/pub?output=csv"},
	{Name: "Flood Package-2", URL: sheetURLPrefix + "2PACX-1vQv5GK2QLH1avgzt1ZPVESAFL-lXV5S3QuldW8fsmBYM5fxv6UmLC2Wrww3Pv7lqkBhdKdUZRzWsfeP/pub?output=csv"},
	{Name: "Flood Package-3", URL: sheetURLPrefix + "2PACX-1vRuPg-9VWBqev1bs_AZYKqQV6-9C8wlVyo2y6ewjNMxwLuEzm1OXURKZrLDb6O2dTsdpJ9iIYKIlnyo/pub?output=csv"},
	{Name: "Flood Package-4", URL: sheetURLPrefix + "2PACX-1vQlUGmqa0SjavAOLnVML_IMAIvnVw5Jtza3z7Tr-norg6yIZYv4GPR6BVGnj7ox7Tshwz6ZrFSxhJTr/pub?output=csv"},
	{Name: "Flood Package-5", URL: sheetURLPrefix + "2PACX-1vS8lttkvWeCBNiQwY9N1yuuQqVLuKUi809JkBh9wD15ko31JlqNwvFrHpAMDf3kxrz63-Acul7jM3es/pub?output=csv"},
	{Name: "BEmONC New Construction Package-6", URL: sheetURLPrefix + "2PACX-1vTX2fHyqqmdrtemmhVh0pDi3WOH0zOXWk6blv--r9PVzm1Mz0Gr6jqE4IxDI66FC-42FLw4X3ye5hEz/pub?output=csv"},
	{Name: "BEmONC Rehab Package-7", URL: sheetURLPrefix + "2PACX-1vRBwi3MLqWQC5SPJsFBS6DHS1SCMlNyxDlVceblbIe3yf4RGYzTueN7T9JKpN1HERVy2qAKKa6ziLvB/pub?output=csv"},
	{Name: "BEmONC Prefab Package-8", URL: sheetURLPrefix + "2PACX-1vT8ioVcUUv9VXS48-z6-gWirSNDjDZFx9CW0lhlJqF4W7XFBaRGZXrvtmh9OCnLtQOVjiJ5t9dooMXV/pub?output=csv"},
	{Name: "CEmONC Package-9", URL: sheetURLPrefix + "2PACX-1vRg6nKPwYTF4HvWzFnEp4hyqmyt9mMMjbE0LKVQPwWQ_cB5y1F3BhjelizGcvJzVzEvnnHtMv58dvQc/pub?output=csv"},
	{Name: "Warehouses Package-10", URL: sheetURLPrefix + "2PACX-1vTrpyYcmR_1-9Apkn0l3O7NQHLcrx2hDe52NDxjO4KwofiAG1EWaKfYJPESyNjb8SjP2fWScshd6zMP/pub?output=csv"},
}

// DefaultColumnRenames maps raw sheet headers to canonical names
var DefaultColumnRenames = []ColumnRename{
	{From: "Mobilization Advance Taken", To: "mobilization_taken"},
	{From: "No_of_Staff_RFB", To: "rfb_staff"},
	{From: "CESMPS_Submitted", To: "cesmps"},
	{From: "OHS_Measures", To: "ohs"},
	{From: "IPC 1", To: "ipc_1"},
	{From: "IPC 2", To: "ipc_2"},
	{From: "IPC 3", To: "ipc_3"},
	{From: "IPC 4", To: "ipc_4"},
	{From: "IPC 5", To: "ipc_5"},
	{From: "IPC 6", To: "ipc_6"},
	{From: "Variance", To: "variance"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("cache.dir", "./data_cache")
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("cache.snapshot_retention_days", 180)
	v.SetDefault("cache.auto_refresh", time.Duration(0))

	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.concurrency", 4)

	v.SetDefault("pipeline.timezone", "Asia/Karachi")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "hcip-dashboard")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("ratelimit.refresh_limit", 5)
	v.SetDefault("ratelimit.refresh_window", time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	v.SetDefault("sources", DefaultSources)
	v.SetDefault("column_renames", DefaultColumnRenames)
}
