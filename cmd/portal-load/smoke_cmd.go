package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func newSmokeCmd() *cobra.Command {
	var creds credentials

	cmd := &cobra.Command{
		Use:   "smoke --base-url <url> (--sid <cookie> | --email <email> --password <password>)",
		Short: "Check /health and the navigation menu of the logged in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := creds.validate(); err != nil {
				return err
			}
			client := newHTTPClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			if err := healthCheck(ctx, client, creds); err != nil {
				return err
			}
			sid, err := creds.session(ctx, client)
			if err != nil {
				return err
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, creds.url("/api/navigation"), nil)
			if err != nil {
				return err
			}
			req.AddCookie(&http.Cookie{Name: creds.CookieKey, Value: sid})
			resp, err := client.Do(req)
			if err != nil {
				return err
			}
			_ = resp.Body.Close()
			if resp.StatusCode/100 != 2 {
				return fmt.Errorf("navigation smoke failed: status=%d", resp.StatusCode)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	bindCredentials(cmd, &creds)
	return cmd
}

func bindCredentials(cmd *cobra.Command, creds *credentials) {
	cmd.Flags().StringVar(&creds.BaseURL, "base-url", "http://localhost:3200", "portal base URL")
	cmd.Flags().StringVar(&creds.CookieKey, "cookie", "sid", "session cookie name")
	cmd.Flags().StringVar(&creds.SID, "sid", "", "session cookie value")
	cmd.Flags().StringVar(&creds.Email, "email", "", "login email, used when --sid is empty")
	cmd.Flags().StringVar(&creds.Password, "password", "", "login password")
}
