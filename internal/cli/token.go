package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jengzang/hcip-dashboard-go/internal/clock"
	"github.com/jengzang/hcip-dashboard-go/internal/middleware"
)

type tokenFlags struct {
	Subject string
	TTL     time.Duration
}

func newTokenCmd(rt *runtime) *cobra.Command {
	flags := &tokenFlags{}
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for POST /api/data/refresh",
		Long: `Token signs an HS256 token with auth.jwt_secret. The secret is usually
supplied as HCIP_AUTH_JWT_SECRET.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ttl := rt.cfg.Auth.TokenTTL
			if flags.TTL > 0 {
				ttl = flags.TTL
			}
			m := middleware.NewTokenManager(rt.cfg.Auth.JWTSecret, rt.cfg.Auth.Issuer, ttl, clock.RealClock{})
			token, err := m.Issue(flags.Subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.Subject, "subject", "operator", "token subject, recorded in refresh logs")
	cmd.Flags().DurationVar(&flags.TTL, "ttl", 0, "token lifetime (default auth.token_ttl)")
	return cmd
}
