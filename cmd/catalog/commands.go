package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shopline/shop-backend/config"
	"github.com/shopline/shop-backend/internal/app/repository"
	"github.com/shopline/shop-backend/internal/catalogio"
	"github.com/shopline/shop-backend/internal/db"
	"github.com/shopline/shop-backend/pkg/logger"
)

var assumeYes bool

func connect() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Initialize(logger.Config{
		Level:       "warn",
		Format:      "console",
		EnableColor: true,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		return err
	}
	return nil
}

func disconnect() {
	if err := db.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to close database:", err)
	}
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the storefront tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.Migrate(db.GetDB()); err != nil {
			return err
		}
		fmt.Println("✅ Migrations complete.")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo catalog into an empty database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.Migrate(db.GetDB()); err != nil {
			return err
		}
		if err := db.SeedDemoCatalog(db.GetDB()); err != nil {
			return err
		}
		fmt.Println("✅ Demo catalog ready.")
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [file.xlsx]",
	Short: "Create or update categories and products from a workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if !assumeYes && !confirm(fmt.Sprintf("Import catalog from %s?", path)) {
			fmt.Println("Import cancelled.")
			return nil
		}

		if err := db.Migrate(db.GetDB()); err != nil {
			return err
		}

		importer := catalogio.NewImporter(
			repository.NewCategoryRepository(db.GetDB()),
			repository.NewProductRepository(db.GetDB()),
		)
		report, err := importer.ImportFile(path)
		if err != nil {
			return err
		}

		fmt.Printf("Categories: %d created, %d updated\n", report.CategoriesCreated, report.CategoriesUpdated)
		fmt.Printf("Products:   %d created, %d updated\n", report.ProductsCreated, report.ProductsUpdated)
		for _, rowErr := range report.Errors {
			fmt.Println("  ⚠", rowErr.Error())
		}
		if len(report.Errors) > 0 {
			return fmt.Errorf("%d rows skipped", len(report.Errors))
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [file.xlsx]",
	Short: "Write every category and product to a workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter := catalogio.NewExporter(
			repository.NewCategoryRepository(db.GetDB()),
			repository.NewProductRepository(db.GetDB()),
		)
		if err := exporter.ExportFile(args[0]); err != nil {
			return err
		}
		fmt.Println("✅ Catalog exported to", args[0])
		return nil
	},
}

func confirm(question string) bool {
	fmt.Printf("%s (yes/no): ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "yes" || answer == "y"
}

func init() {
	importCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
}
