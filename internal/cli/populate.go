package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/argenova/mesai-ai/internal/service"
)

var populateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Load data into the vector store",
}

var populateExamplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Embed the curated training examples into the vector store",
	Run: func(cmd *cobra.Command, args []string) {
		runPopulate(func(ctx context.Context, svc *service.Service) *service.PopulateResult {
			return svc.PopulateTrainingExamples(ctx)
		})
	},
}

var populateSamplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "Embed the generated demo employee records into the vector store",
	Run: func(cmd *cobra.Command, args []string) {
		runPopulate(func(ctx context.Context, svc *service.Service) *service.PopulateResult {
			return svc.PopulateVectors(ctx)
		})
	},
}

func runPopulate(load func(context.Context, *service.Service) *service.PopulateResult) {
	ctx := context.Background()

	svc, db, err := buildService(ctx)
	if err != nil {
		exitWithError("%v", err)
	}
	defer func() { _ = db.Close(ctx) }()

	result := load(ctx, svc)
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "  %s\n", e)
	}
	fmt.Printf("added %d, failed %d\n", result.Added, result.Failed)

	if result.Added == 0 && len(result.Errors) > 0 {
		os.Exit(1)
	}
}

func init() {
	populateCmd.AddCommand(populateExamplesCmd)
	populateCmd.AddCommand(populateSamplesCmd)
}
