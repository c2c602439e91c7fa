package cmd

import (
	"fmt"
	"strings"
	"time"

	"recicleaqui/models"
	"recicleaqui/utils"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a user id and role",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := models.Role(strings.ToUpper(strings.TrimSpace(role)))
			switch r {
			case models.RoleClient, models.RoleCollector, models.RoleAdmin:
			default:
				return fmt.Errorf("invalid role %q: expected CLIENT, COLLECTOR or ADMIN", role)
			}
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			token, err := utils.GenerateToken(userID, r, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id placed in the sub claim")
	cmd.Flags().StringVar(&role, "role", string(models.RoleClient), "CLIENT, COLLECTOR or ADMIN")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
