package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/budgetflow/backend/internal/importer"
	"github.com/budgetflow/backend/internal/models"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

func newImportCommand(configFile *string) *cobra.Command {
	kinds := make([]string, 0, len(importer.Kinds))
	for _, k := range importer.Kinds {
		kinds = append(kinds, string(k))
	}

	return &cobra.Command{
		Use:       "import <kind> <file>",
		Short:     "Import master data from an xlsx, xls or csv file",
		Long:      fmt.Sprintf("Import master data from an xlsx, xls or csv file.\n\nKinds: %s", strings.Join(kinds, ", ")),
		Args:      cobra.ExactArgs(2),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := importer.Kind(args[0])
			if !slices.Contains(importer.Kinds, kind) {
				return fmt.Errorf("%w %q", importer.ErrUnknownKind, args[0])
			}

			if _, err := setup(*configFile); err != nil {
				return err
			}

			summary, err := runImport(cmd.Context(), kind, args[1])
			if err != nil {
				return err
			}

			// The summary is printed as YAML since it is read by people
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(summary)
		},
	}
}

func runImport(ctx context.Context, kind importer.Kind, path string) (importer.Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return importer.Summary{}, err
	}
	defer f.Close()

	file, err := importer.Read(f, filepath.Base(path))
	if err != nil {
		return importer.Summary{}, err
	}

	return importer.Import(models.DB.WithContext(ctx), kind, file)
}
