package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var vectorsLimit int

var vectorsCmd = &cobra.Command{
	Use:   "vectors",
	Short: "Inspect and manage the vector store",
}

var vectorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored points with their payloads",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		svc, db, err := buildService(ctx)
		if err != nil {
			exitWithError("%v", err)
		}
		defer func() { _ = db.Close(ctx) }()

		points := svc.ListVectors(ctx, vectorsLimit)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(points); err != nil {
			exitWithError("encode points: %v", err)
		}
		fmt.Fprintf(os.Stderr, "%d points\n", len(points))
	},
}

var vectorsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show collection info",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		svc, db, err := buildService(ctx)
		if err != nil {
			exitWithError("%v", err)
		}
		defer func() { _ = db.Close(ctx) }()

		info := svc.VectorStatus(ctx)
		if info == nil {
			exitWithError("vector store unreachable")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(info); err != nil {
			exitWithError("encode info: %v", err)
		}
	},
}

var vectorsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every point in the collection",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		svc, db, err := buildService(ctx)
		if err != nil {
			exitWithError("%v", err)
		}
		defer func() { _ = db.Close(ctx) }()

		if !svc.ClearVectors(ctx) {
			exitWithError("vector store rejected the delete")
		}
		fmt.Println("collection cleared")
	},
}

func init() {
	vectorsListCmd.Flags().IntVar(&vectorsLimit, "limit", 100, "maximum points to list")

	vectorsCmd.AddCommand(vectorsListCmd)
	vectorsCmd.AddCommand(vectorsStatusCmd)
	vectorsCmd.AddCommand(vectorsClearCmd)
}
