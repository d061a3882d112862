package recipient

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/soniachalia9-maker/bulkmail/internal/console"
)

// SampleCSVPath is the default filename offered when a CSV source is missing.
const SampleCSVPath = "recipients.csv"

// sampleRows are the illustrative entries written into a generated CSV.
var sampleRows = []Recipient{
	{Name: "John Doe", Email: "john@example.com"},
	{Name: "Jane Smith", Email: "jane@example.com"},
	{Name: "Bob Johnson", Email: "bob@example.com"},
}

// LoadCSV reads recipients from a CSV file with a header row containing
// at least an email column and optionally a name column. Rows with an
// invalid address are returned in dropped rather than failing the load.
func LoadCSV(path string) (valid []Recipient, dropped []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	emailCol, nameCol := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "email":
			emailCol = i
		case "name":
			nameCol = i
		}
	}
	if emailCol < 0 {
		return nil, nil, fmt.Errorf("CSV file %s has no email column", path)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV rows: %w", err)
	}

	for _, row := range records {
		if emailCol >= len(row) {
			continue
		}
		addr := strings.TrimSpace(row[emailCol])
		if !IsValidAddress(addr) {
			dropped = append(dropped, addr)
			continue
		}
		r := Recipient{Email: addr}
		if nameCol >= 0 && nameCol < len(row) {
			r.Name = strings.TrimSpace(row[nameCol])
		}
		valid = append(valid, r)
	}
	return valid, dropped, nil
}

// LoadText reads one address per line, skipping blank lines. Lines that
// fail validation are returned in dropped.
func LoadText(path string) (valid []Recipient, dropped []string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read text file: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		addr := strings.TrimSpace(line)
		if addr == "" {
			continue
		}
		if !IsValidAddress(addr) {
			dropped = append(dropped, addr)
			continue
		}
		valid = append(valid, Recipient{Email: addr})
	}
	return valid, dropped, nil
}

// LoadManual collects entries interactively, one per line, until the
// operator types "done". Each entry may be a bare address or
// "Name <address>"; invalid addresses are reported and skipped.
func LoadManual(p console.Prompter) []Recipient {
	p.Say("Enter one email per line. Type 'done' when finished.")
	p.Say("Format: email or name <email>")

	var recipients []Recipient
	for {
		entry, err := p.Ask("> ")
		if err != nil {
			break
		}
		if strings.EqualFold(entry, "done") {
			break
		}
		if entry == "" {
			continue
		}

		r := ParseEntry(entry)
		if !IsValidAddress(r.Email) {
			p.Say("✗ Invalid email: %s", r.Email)
			continue
		}
		recipients = append(recipients, r)
		p.Say("✓ Added: %s", r.Display())
	}
	return recipients
}

// WriteSampleCSV creates a CSV file with a header row and three
// illustrative recipients for the operator to edit.
func WriteSampleCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create sample CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"name", "email"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range sampleRows {
		if err := w.Write([]string{r.Name, r.Email}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
