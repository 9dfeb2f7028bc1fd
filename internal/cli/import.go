package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/myfit/internal/services"
	"gopkg.in/yaml.v3"
)

// importFile is the YAML document accepted by the import command:
//
//	entries:
//	  - date: 2026-03-01
//	    calories: 520
//	    protein: 31
type importFile struct {
	Entries []importEntry `yaml:"entries"`
}

type importEntry struct {
	Date     string `yaml:"date"`
	Calories int64  `yaml:"calories"`
	Protein  int64  `yaml:"protein"`
}

type importResult struct {
	Imported int
	Rejected []string
}

func parseImportFile(reader io.Reader, now time.Time, location *time.Location) ([]services.LogEntryInput, error) {
	document := importFile{}
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(&document); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse import file: %w", err)
	}

	inputs := make([]services.LogEntryInput, 0, len(document.Entries))
	for index, entry := range document.Entries {
		date, err := services.ParseEntryDate(entry.Date, now, location)
		if err != nil {
			return nil, fmt.Errorf("entry %d: invalid date %q", index+1, entry.Date)
		}
		inputs = append(inputs, services.LogEntryInput{
			Date:     date,
			Calories: entry.Calories,
			Protein:  entry.Protein,
		})
	}
	return inputs, nil
}

// importEntries stores each input through the log service. Entries failing
// validation are reported and skipped; a storage failure stops the run.
func importEntries(logs *services.LogService, userID uint, inputs []services.LogEntryInput) (importResult, error) {
	result := importResult{}
	for index, input := range inputs {
		if _, err := logs.AddEntry(userID, input); err != nil {
			if errors.Is(err, services.ErrInvalidLogInput) {
				result.Rejected = append(result.Rejected, fmt.Sprintf("entry %d: calories and protein must be positive", index+1))
				continue
			}
			return result, err
		}
		result.Imported++
	}
	return result, nil
}

func newImportCommand(state *command) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import log entries from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(state.cfg, state.stderr)
			if err != nil {
				return err
			}
			defer func() {
				_ = rt.close()
			}()

			user, err := rt.deps.Auth.FindByEmail(email)
			if err != nil {
				return userLookupError(email, err)
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer file.Close()

			inputs, err := parseImportFile(file, time.Now(), rt.location)
			if err != nil {
				return err
			}
			result, err := importEntries(rt.deps.Logs, user.ID, inputs)
			if err != nil {
				return fmt.Errorf("import stopped after %d entries: %w", result.Imported, err)
			}

			for _, rejected := range result.Rejected {
				fmt.Fprintf(state.stdout, "skipped %s\n", rejected)
			}
			fmt.Fprintf(state.stdout, "Imported %d of %d entries for %s\n", result.Imported, len(inputs), user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account that owns the imported entries")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
