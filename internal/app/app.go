// Package app implements the interactive menu flows tying together the
// recipient loader, the composer, the delivery engine, and the
// statistics recorder. All state is carried on the App session object;
// nothing is ambient.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/soniachalia9-maker/bulkmail/internal/config"
	"github.com/soniachalia9-maker/bulkmail/internal/console"
	"github.com/soniachalia9-maker/bulkmail/internal/engine"
	"github.com/soniachalia9-maker/bulkmail/internal/message"
	"github.com/soniachalia9-maker/bulkmail/internal/provider"
	"github.com/soniachalia9-maker/bulkmail/internal/provider/ses"
	"github.com/soniachalia9-maker/bulkmail/internal/provider/smtp"
	"github.com/soniachalia9-maker/bulkmail/internal/provider/stdout"
	"github.com/soniachalia9-maker/bulkmail/internal/recipient"
	"github.com/soniachalia9-maker/bulkmail/internal/stats"
)

const banner = `
  ╔═══════════════════════════════════════╗
  ║              B U L K M A I L          ║
  ║      bulk email delivery utility      ║
  ╚═══════════════════════════════════════╝
`

// App is one interactive session: the loaded configuration, the current
// recipient list, and the terminal dialogue.
type App struct {
	cfg        *config.Config
	cfgPath    string
	statsPath  string
	prompter   console.Prompter
	recipients []recipient.Recipient

	// newTransport builds the delivery backend for one batch.
	// Overridable so flows can be tested without a network.
	newTransport func(ctx context.Context, password string) (provider.Transport, error)
}

// New creates an App around the loaded configuration.
func New(cfg *config.Config, cfgPath, statsPath string, p console.Prompter) *App {
	a := &App{
		cfg:       cfg,
		cfgPath:   cfgPath,
		statsPath: statsPath,
		prompter:  p,
	}
	a.newTransport = a.buildTransport
	return a
}

// Run drives the main menu until the operator exits or input ends.
// Action errors are reported and the menu continues; they never
// terminate the process.
func (a *App) Run(ctx context.Context) error {
	a.prompter.Say("%s", banner)

	for {
		a.prompter.Say("")
		a.prompter.Say("MAIN MENU")
		a.prompter.Say("1. Send Emails")
		a.prompter.Say("2. Setup/Configuration")
		a.prompter.Say("3. Send Test Email")
		a.prompter.Say("4. View Statistics")
		a.prompter.Say("5. Manage Recipients")
		a.prompter.Say("6. Help")
		a.prompter.Say("7. Exit")

		choice, err := a.prompter.Ask("Enter your choice (1-7): ")
		if err != nil {
			return nil
		}

		var actionErr error
		switch choice {
		case "1":
			actionErr = a.sendFlow(ctx)
		case "2":
			actionErr = a.setupWizard()
		case "3":
			actionErr = a.sendTestEmail(ctx)
		case "4":
			actionErr = a.viewStats()
		case "5":
			actionErr = a.manageRecipients()
		case "6":
			a.help()
		case "7":
			a.prompter.Say("Thank you for using bulkmail. Goodbye!")
			return nil
		default:
			a.prompter.Say("Invalid choice. Please enter 1-7.")
		}

		if actionErr != nil {
			slog.Error("menu action failed", "choice", choice, "error", actionErr)
			a.prompter.Say("An error occurred: %v", actionErr)
			a.prompter.Say("Please check your configuration and try again.")
		}
	}
}

// sendFlow is the full campaign path: load recipients, compose, choose
// send mode, deliver, and record statistics for real completed batches.
func (a *App) sendFlow(ctx context.Context) error {
	a.prompter.Say("How would you like to load recipients?")
	a.prompter.Say("1. Manual entry")
	a.prompter.Say("2. From CSV file")
	a.prompter.Say("3. From text file")
	a.prompter.Say("4. Use existing recipients")

	choice, err := a.prompter.Ask("Enter choice (1-4): ")
	if err != nil {
		return nil
	}
	if source, ok := loadSources[choice]; ok {
		if err := a.loadRecipients(source); err != nil {
			return err
		}
	}

	if len(a.recipients) == 0 {
		a.prompter.Say("No recipients loaded. Please load recipients first.")
		return nil
	}

	spec := message.Compose(a.prompter)

	a.prompter.Say("Send options:")
	a.prompter.Say("1. Send now")
	a.prompter.Say("2. Test mode (no emails sent)")
	sendChoice, err := a.prompter.Ask("Enter choice (1-2): ")
	if err != nil || (sendChoice != "1" && sendChoice != "2") {
		return nil
	}
	testMode := sendChoice == "2"

	if !console.Confirm(a.prompter, fmt.Sprintf("Send email to %d recipients?", len(a.recipients))) {
		return nil
	}

	res, err := a.deliver(ctx, spec, a.recipients, testMode)
	if err != nil {
		a.reportSessionFailure(err)
		return nil
	}

	if testMode {
		a.prompter.Say("TEST MODE - no emails were sent.")
		a.prompter.Say("Would send to %d recipients.", res.Total)
		return nil
	}

	if _, err := stats.Record(a.statsPath, res, spec.Subject); err != nil {
		slog.Error("failed to record statistics", "error", err)
		a.prompter.Say("✗ Could not save statistics: %v", err)
	}

	a.prompter.Say("")
	a.prompter.Say("SENDING SUMMARY")
	a.prompter.Say("Total: %d", res.Total)
	a.prompter.Say("Successfully sent: %d", res.Sent)
	a.prompter.Say("Failed: %d", res.Failed)
	if res.Failed > 0 {
		a.prompter.Say("Errors:")
		for i, e := range res.Errors {
			if i == 5 {
				break
			}
			a.prompter.Say("  • %s", e)
		}
	}
	return nil
}

// deliver renders the campaign and runs the delivery engine. In test
// mode no transport is built and no password is asked for.
func (a *App) deliver(ctx context.Context, spec message.Spec, rcpts []recipient.Recipient, testMode bool) (engine.Result, error) {
	renderer, err := message.NewRenderer(spec, a.cfg.SenderName, a.cfg.SenderEmail)
	if err != nil {
		return engine.Result{Total: len(rcpts)}, err
	}

	var transport provider.Transport
	if !testMode {
		password, err := a.password()
		if err != nil {
			return engine.Result{Total: len(rcpts)}, err
		}
		transport, err = a.newTransport(ctx, password)
		if err != nil {
			return engine.Result{Total: len(rcpts)}, err
		}
		a.prompter.Say("Sending emails to %d recipients...", len(rcpts))
	}

	opts := engine.Options{
		TestMode: testMode,
		Progress: func(i, n int, rc recipient.Recipient, err error) {
			if testMode {
				return
			}
			if err != nil {
				a.prompter.Say("✗ [%d/%d] Failed to send to %s: %v", i, n, rc.Email, err)
			} else {
				a.prompter.Say("✓ [%d/%d] Sent to: %s", i, n, rc.Display())
			}
		},
	}
	return engine.Run(ctx, transport, renderer, rcpts, opts)
}

// password returns the persisted credential when one exists, otherwise
// asks the operator for it.
func (a *App) password() (string, error) {
	if a.cfg.HasStoredPassword() {
		return a.cfg.SenderPassword, nil
	}
	return a.prompter.AskSecret(fmt.Sprintf("Enter password for %s: ", a.cfg.SenderEmail))
}

// buildTransport selects the delivery backend from configuration.
func (a *App) buildTransport(ctx context.Context, password string) (provider.Transport, error) {
	switch a.cfg.Provider {
	case "smtp", "":
		return smtp.New(smtp.Options{
			Server:   a.cfg.SMTPServer,
			Port:     a.cfg.SMTPPort,
			Username: a.cfg.SenderEmail,
			Password: password,
			UseSSL:   a.cfg.UseSSL,
		})
	case "ses":
		if !a.cfg.SESConfigured() {
			return nil, fmt.Errorf("ses provider selected but ses.region is not set")
		}
		return ses.New(ctx, ses.Options{
			Region:          a.cfg.SES.Region,
			AccessKeyID:     a.cfg.SES.AccessKeyID,
			SecretAccessKey: a.cfg.SES.SecretAccessKey,
		})
	case "stdout":
		return stdout.New(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", a.cfg.Provider)
	}
}

// reportSessionFailure prints the remediation hints for a batch that
// never started.
func (a *App) reportSessionFailure(err error) {
	a.prompter.Say("✗ %v", err)
	a.prompter.Say("Common solutions:")
	a.prompter.Say("  1. Check your password (use an App Password for Gmail)")
	a.prompter.Say("  2. Enable SMTP access for your email provider")
	a.prompter.Say("  3. Verify server/port settings")
}

// loadSources maps the send-flow sub-menu choices to loader sources.
var loadSources = map[string]string{
	"1": "manual",
	"2": "csv",
	"3": "text",
}

// loadRecipients replaces the current recipient list from the given
// source. Unreadable files report an error and leave the list empty;
// this never terminates the session.
func (a *App) loadRecipients(source string) error {
	a.recipients = nil

	switch source {
	case "manual":
		a.recipients = recipient.LoadManual(a.prompter)

	case "csv":
		path := console.AskDefault(a.prompter,
			fmt.Sprintf("Enter CSV filename (default: %s): ", recipient.SampleCSVPath),
			recipient.SampleCSVPath)
		if _, err := os.Stat(path); err != nil {
			a.prompter.Say("✗ File not found: %s", path)
			if console.Confirm(a.prompter, "Create sample CSV file?") {
				if err := recipient.WriteSampleCSV(path); err != nil {
					return err
				}
				a.prompter.Say("✓ Created sample CSV: %s", path)
				a.prompter.Say("Edit this file with your actual recipients")
			}
			return nil
		}
		valid, dropped, err := recipient.LoadCSV(path)
		if err != nil {
			a.prompter.Say("✗ Error reading CSV: %v", err)
			return nil
		}
		a.reportLoaded(valid, dropped, path)

	case "text":
		path, err := a.prompter.Ask("Enter text filename: ")
		if err != nil {
			return nil
		}
		valid, dropped, err := recipient.LoadText(path)
		if err != nil {
			a.prompter.Say("✗ Error reading file: %v", err)
			return nil
		}
		a.reportLoaded(valid, dropped, path)
	}
	return nil
}

// reportLoaded installs a freshly loaded list and reports every drop.
func (a *App) reportLoaded(valid []recipient.Recipient, dropped []string, path string) {
	for _, d := range dropped {
		a.prompter.Say("✗ Invalid email: %s", d)
	}
	a.recipients = valid
	a.prompter.Say("✓ Loaded %d recipients from %s", len(valid), path)
}

// setupWizard walks through provider, sender, and credential settings
// and persists the result.
func (a *App) setupWizard() error {
	a.prompter.Say("SETUP WIZARD")
	a.prompter.Say("Select your email provider:")
	a.prompter.Say("1. Gmail")
	a.prompter.Say("2. Outlook/Hotmail")
	a.prompter.Say("3. Yahoo")
	a.prompter.Say("4. Other/Custom SMTP")

	choice, err := a.prompter.Ask("Enter choice (1-4): ")
	if err != nil {
		return nil
	}

	presets := map[string]string{"1": "gmail", "2": "outlook", "3": "yahoo"}
	if name, ok := presets[choice]; ok {
		a.cfg.ApplyPreset(name)
		a.prompter.Say("✓ Using %s SMTP settings", name)
	} else {
		server, err := a.prompter.Ask("Enter SMTP server: ")
		if err != nil {
			return nil
		}
		a.cfg.SMTPServer = server
		port := console.AskDefault(a.prompter, "Enter SMTP port (default 587): ", "587")
		if _, err := fmt.Sscanf(port, "%d", &a.cfg.SMTPPort); err != nil {
			a.cfg.SMTPPort = 587
		}
	}

	for {
		addr, err := a.prompter.Ask("Your email address: ")
		if err != nil {
			return nil
		}
		if recipient.IsValidAddress(addr) {
			a.cfg.SenderEmail = addr
			break
		}
		a.prompter.Say("✗ Invalid email format. Please try again.")
	}

	a.cfg.SenderName = console.AskDefault(a.prompter, "Your name (optional): ", a.cfg.SenderName)

	a.prompter.Say("Password note:")
	a.prompter.Say("• For Gmail, use an 'App Password' (not your regular password)")
	a.prompter.Say("• Enable 2-factor authentication first, then create an app password")

	a.cfg.SavePassword = console.Confirm(a.prompter, "Save password in config?")
	if a.cfg.SavePassword {
		secret, err := a.prompter.AskSecret("Enter email password/app password: ")
		if err != nil {
			return nil
		}
		a.cfg.SenderPassword = secret
	} else {
		a.cfg.SenderPassword = ""
	}

	if err := a.cfg.Save(a.cfgPath); err != nil {
		return err
	}
	a.prompter.Say("✓ Setup complete!")
	return nil
}

// sendTestEmail delivers a canned message to the operator's own
// address to verify the transport settings. Test deliveries are not
// recorded in statistics.
func (a *App) sendTestEmail(ctx context.Context) error {
	if a.cfg.SenderEmail == "" {
		a.prompter.Say("No sender address configured. Run Setup first.")
		return nil
	}

	self := recipient.Recipient{Name: "Test Recipient", Email: a.cfg.SenderEmail}
	spec := message.Spec{
		Subject: "Test Email from bulkmail",
		Body: fmt.Sprintf(`Hello!

This is a test email sent from bulkmail.

If you're receiving this email, your SMTP configuration is working correctly!

SMTP Server: %s
Sender: %s

Best regards,
bulkmail`, a.cfg.SMTPServer, a.cfg.SenderEmail),
	}

	a.prompter.Say("Test email details:")
	a.prompter.Say("To: %s", self.Email)
	a.prompter.Say("Subject: %s", spec.Subject)
	if !console.Confirm(a.prompter, "Send test email?") {
		return nil
	}

	res, err := a.deliver(ctx, spec, []recipient.Recipient{self}, false)
	if err != nil {
		a.reportSessionFailure(err)
		return nil
	}
	if res.Sent > 0 {
		a.prompter.Say("✓ Test email sent successfully!")
		a.prompter.Say("Please check your inbox (and spam folder)")
	}
	return nil
}

// viewStats prints totals and the five most recent campaigns.
func (a *App) viewStats() error {
	s, err := stats.Load(a.statsPath)
	if err != nil {
		return err
	}

	if s.TotalSent == 0 && s.TotalFailed == 0 && len(s.Campaigns) == 0 {
		a.prompter.Say("No statistics found. Send some emails first!")
		return nil
	}

	lastSent := s.LastSent
	if lastSent == "" {
		lastSent = "Never"
	}

	a.prompter.Say("EMAIL STATISTICS")
	a.prompter.Say("Emails sent: %d", s.TotalSent)
	a.prompter.Say("Failed: %d", s.TotalFailed)
	a.prompter.Say("Last sent: %s", lastSent)
	a.prompter.Say("Campaigns: %d", len(s.Campaigns))

	start := len(s.Campaigns) - 5
	if start < 0 {
		start = 0
	}
	for i, c := range s.Campaigns[start:] {
		a.prompter.Say("  %d. %s - %s (sent %d, failed %d)", i+1, c.Subject, c.Date, c.Sent, c.Failed)
	}
	return nil
}

// manageRecipients shows the current list and optionally replaces it.
// The load source is taken from the freshly prompted selection.
func (a *App) manageRecipients() error {
	a.prompter.Say("Current recipients: %d", len(a.recipients))
	for i, r := range a.recipients {
		if i == 5 {
			break
		}
		a.prompter.Say("  %d. %s - %s", i+1, r.Display(), r.Email)
	}

	if !console.Confirm(a.prompter, "Load new recipients?") {
		return nil
	}

	a.prompter.Say("Load from:")
	a.prompter.Say("1. Manual entry")
	a.prompter.Say("2. CSV file")
	a.prompter.Say("3. Text file")
	choice, err := a.prompter.Ask("Enter choice (1-3): ")
	if err != nil {
		return nil
	}
	source, ok := loadSources[choice]
	if !ok {
		source = "manual"
	}
	return a.loadRecipients(source)
}

// help prints usage notes.
func (a *App) help() {
	a.prompter.Say("HELP & INSTRUCTIONS")
	a.prompter.Say("")
	a.prompter.Say("Setup tips:")
	a.prompter.Say("• Gmail users: create an 'App Password' (not your regular password)")
	a.prompter.Say("• Enable 2-factor authentication first in your Google account")
	a.prompter.Say("")
	a.prompter.Say("Recipient formats:")
	a.prompter.Say("• Single email: john@example.com")
	a.prompter.Say("• With name: John Doe <john@example.com>")
	a.prompter.Say("• CSV files need an 'email' column; 'name' is optional")
	a.prompter.Say("")
	a.prompter.Say("Files created:")
	a.prompter.Say("• %s - your email settings", a.cfgPath)
	a.prompter.Say("• %s - sending statistics", a.statsPath)
	a.prompter.Say("• %s - sample recipient list", recipient.SampleCSVPath)
	a.prompter.Say("")
	a.prompter.Say("Always test with yourself first, and don't spam.")
}
