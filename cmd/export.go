package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/academic-requests/internal/feedback"
	feedbackPostgres "github.com/frahmantamala/academic-requests/internal/feedback/postgres"
	"github.com/frahmantamala/academic-requests/internal/report"
	"github.com/frahmantamala/academic-requests/internal/request"
	requestPostgres "github.com/frahmantamala/academic-requests/internal/request/postgres"
	"github.com/frahmantamala/academic-requests/pkg/logger"
)

var (
	exportOut        string
	exportDepartment int64
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export requests and feedback to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(".")
		if err != nil {
			return err
		}
		lg := logger.LoggerWrapper()

		db, err := initDB(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		gdb, err := initGorm(db, false)
		if err != nil {
			return err
		}

		var filter request.ManagementFilter
		if exportDepartment != 0 {
			filter.DepartmentID = &exportDepartment
		}

		// Read-only: the services never reach their writers here.
		requests := request.NewService(requestPostgres.NewRequestRepository(gdb), nil, nil, nil, nil, lg)
		feedbackService := feedback.NewService(feedbackPostgres.NewFeedbackRepository(gdb), nil, nil, nil, lg)
		svc := report.NewService(requests, feedbackService, lg)

		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		if err := svc.Write(context.Background(), filter, f); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		lg.Info("report exported", "path", exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "academic_requests.xlsx", "output file")
	exportCmd.Flags().Int64Var(&exportDepartment, "department", 0, "limit requests to one department")
}
