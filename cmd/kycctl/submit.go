package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"investogun/internal/application/models"
	"investogun/internal/webhook"
)

func submitCmd(defaultURL string, defaultTimeout time.Duration) *cobra.Command {
	var (
		url     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "submit <payload.json|->",
		Short: "Post a saved application payload to the intake endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			app, err := readApplication(c.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(c.Context(), timeout)
			defer cancel()

			cfg := webhook.DefaultConfig()
			cfg.Timeout = timeout
			client := webhook.New(url, webhook.WithHTTPClient(webhook.NewHTTPClient(cfg)))

			resp, err := client.Submit(ctx, app)
			if err != nil {
				if errors.Is(err, webhook.ErrNotOK) {
					return fmt.Errorf("intake endpoint rejected the payload: %w", err)
				}
				return fmt.Errorf("intake endpoint unreachable: %w", err)
			}

			out := c.OutOrStdout()
			fmt.Fprintf(out, "submitted: status %d in %s\n", resp.Status, resp.Duration.Round(time.Millisecond))
			if resp.Body != nil {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp.Body)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", defaultURL, "Intake webhook URL")
	cmd.Flags().DurationVar(&timeout, "timeout", durationFlagDefault(defaultTimeout), "Request timeout")
	return cmd
}

// readApplication decodes a payload file, or stdin when path is "-". Unknown
// keys are rejected so a typo does not silently drop a field.
func readApplication(stdin io.Reader, path string) (models.Application, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return models.Application{}, fmt.Errorf("read payload: %w", err)
	}

	var app models.Application
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&app); err != nil {
		return models.Application{}, fmt.Errorf("decode payload: %w", err)
	}
	return app, nil
}
