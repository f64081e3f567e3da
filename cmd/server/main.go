// Package main provides the entry point for the dashboard backend.
package main

import (
	"context"
	"os"

	// reference timezone must resolve on hosts without a zoneinfo database
	_ "time/tzdata"

	"github.com/jengzang/hcip-dashboard-go/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
