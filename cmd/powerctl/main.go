package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/faradayfan/instance-power/internal/protocol"
)

const defaultURL = "http://127.0.0.1:8080"

// exitError carries the exit code for responses the server rejected.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		if ee, ok := err.(exitError); ok {
			os.Exit(ee.code)
		}
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	root := &cobra.Command{
		Use:           "powerctl",
		Short:         "Start, stop or query the configured instance",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: strings.TrimSpace(`
Sends an action to the power function (local server or function URL).

Environment:
  POWER_URL=` + defaultURL),
	}

	root.PersistentFlags().StringVar(&baseURL, "url", getenvDefault("POWER_URL", defaultURL), "base URL of the power function")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")

	for _, a := range []protocol.Action{protocol.ActionStart, protocol.ActionStop, protocol.ActionStatus} {
		action := a
		root.AddCommand(&cobra.Command{
			Use:   string(action),
			Short: fmt.Sprintf("Send the %q action", action),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				client := &http.Client{Timeout: timeout}
				return doAction(client, out, baseURL, action)
			},
		})
	}

	return root
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func doAction(client *http.Client, out io.Writer, baseURL string, action protocol.Action) error {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return fmt.Errorf("parse url %q: %w", baseURL, err)
	}
	u.RawQuery = url.Values{protocol.KeyAction: {string(action)}}.Encode()

	res, err := client.Get(u.String())
	if err != nil {
		return fmt.Errorf("send %s: %w", action, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	fmt.Fprintf(out, "%s\n", prettyJSON(body))

	if res.StatusCode >= 400 {
		return exitError{code: 1}
	}
	return nil
}

func prettyJSON(b []byte) string {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return string(b)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(b)
	}
	return string(out)
}
