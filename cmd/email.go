/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog/log"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/ademuri/netflix-recap/internal/analysis"
	"github.com/ademuri/netflix-recap/internal/report"
)

type SendEmailConfig struct {
	From    string
	To      []string
	Report  *analysis.Report
	DryRun  bool
	APIKey  string
	Limiter *rate.Limiter

	// Pause between attempts when SendGrid is unavailable.
	RetryDelay time.Duration
}

// mailSender is satisfied by *sendgrid.Client.
type mailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// sendError is a response SendGrid answered with a non-2xx status.
type sendError struct {
	StatusCode int
	Body       string
}

func (e *sendError) Error() string {
	return fmt.Sprintf("sendgrid returned %d: %s", e.StatusCode, e.Body)
}

func (e *sendError) temporary() bool {
	return e.StatusCode/100 == 5 || e.StatusCode == http.StatusTooManyRequests
}

var emailCmd = &cobra.Command{
	Use:   "email <address...>",
	Short: "Emails the last recap",
	Long: `Sends the recap written by the last run (see --output) to each address.
Requires --from and a SendGrid key in sendgrid_api_key (or
NETFLIX_RECAP_SENDGRID_API_KEY, which may be set in .env).`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		recapConfig, err := recapConfigFromFlags(nil)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		// Only JSON recaps can be read back.
		recapConfig.Format = report.JSON
		path := recapConfig.outputPath()
		stats, err := report.Read(path)
		if err != nil {
			fmt.Printf("%v\nRun netflix-recap first to write %s.\n", err, path)
			os.Exit(1)
		}

		config := SendEmailConfig{
			From:       viper.GetString("from"),
			To:         args,
			Report:     stats,
			DryRun:     viper.GetBool("dry_run"),
			APIKey:     viper.GetString("sendgrid_api_key"),
			Limiter:    rate.NewLimiter(rate.Every(1*time.Second), 1),
			RetryDelay: 2 * time.Second,
		}
		if !config.DryRun && config.APIKey == "" {
			fmt.Println("sendgrid_api_key must be set in order to send emails")
			os.Exit(1)
		}
		if err := sendEmail(cmd.Context(), config, sendgrid.NewSendClient(config.APIKey), os.Stdout); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	emailCmd.Flags().String("from", "", "From email address")
	viper.BindPFlag("from", emailCmd.Flags().Lookup("from"))

	emailCmd.Flags().String("sendgrid_api_key", "", "SendGrid API key")
	viper.BindPFlag("sendgrid_api_key", emailCmd.Flags().Lookup("sendgrid_api_key"))

	emailCmd.Flags().Bool("dry_run", false, "When true, just print instead of emailing")
	viper.BindPFlag("dry_run", emailCmd.Flags().Lookup("dry_run"))
}

func sendEmail(ctx context.Context, config SendEmailConfig, client mailSender, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	subject, plain, html, err := generateEmailContent(config.Report)
	if err != nil {
		return err
	}

	if config.DryRun {
		for _, to := range config.To {
			fmt.Fprintf(out, "Would have sent email to %s:\nsubject: %s\n%s\n", to, subject, plain)
		}
		return nil
	}

	from := mail.NewEmail("netflix-recap", config.From)
	for _, to := range config.To {
		if config.Limiter != nil {
			if err := config.Limiter.Wait(ctx); err != nil {
				return fmt.Errorf("sendEmail: %w", err)
			}
		}

		message := mail.NewSingleEmail(from, subject, mail.NewEmail(to, to), plain, html)
		err := retry.Do(
			func() error {
				response, err := client.Send(message)
				if err != nil {
					return err
				}
				if response.StatusCode/100 != 2 {
					return &sendError{StatusCode: response.StatusCode, Body: response.Body}
				}
				return nil
			},
			retry.Attempts(3),
			retry.Delay(config.RetryDelay),
			retry.LastErrorOnly(true),
			retry.RetryIf(func(err error) bool {
				var serr *sendError
				return errors.As(err, &serr) && serr.temporary()
			}),
			retry.OnRetry(func(n uint, err error) {
				log.Warn().Err(err).Uint("attempt", n+1).Str("to", to).Msg("SendGrid errored, retrying")
			}),
		)
		if err != nil {
			return fmt.Errorf("sendEmail to %s: %w", to, err)
		}
		fmt.Fprintf(out, "Sent recap to %s\n", to)
	}
	return nil
}

func generateEmailContent(r *analysis.Report) (subject, plain, html string, err error) {
	subject = fmt.Sprintf("Your %d Netflix recap: %s", r.Year, r.Personality.Type)
	plain = report.Markdown(r)
	html, err = report.HTML(r)
	if err != nil {
		return "", "", "", err
	}
	return subject, plain, html, nil
}
