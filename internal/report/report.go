// Package report renders requests and feedback into an xlsx workbook.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/frahmantamala/academic-requests/internal/feedback"
	"github.com/frahmantamala/academic-requests/internal/request"
)

const (
	RequestsSheet = "Requests"
	FeedbackSheet = "Feedback"

	timeLayout = "2006-01-02 15:04"
)

type RequestSource interface {
	ListForManagement(ctx context.Context, filter request.ManagementFilter) ([]*request.Request, error)
}

type FeedbackSource interface {
	List(ctx context.Context) ([]*feedback.Feedback, error)
}

type Service struct {
	requests RequestSource
	feedback FeedbackSource
	logger   *slog.Logger
}

func NewService(requests RequestSource, fb FeedbackSource, logger *slog.Logger) *Service {
	return &Service{
		requests: requests,
		feedback: fb,
		logger:   logger,
	}
}

type sheet struct {
	title  string
	header []string
	rows   [][]string
}

// Workbook builds the export for the requests matching filter plus all
// feedback. The caller owns the returned file and must Close it.
func (s *Service) Workbook(ctx context.Context, filter request.ManagementFilter) (*excelize.File, error) {
	reqs, err := s.requests.ListForManagement(ctx, filter)
	if err != nil {
		return nil, err
	}
	fbs, err := s.feedback.List(ctx)
	if err != nil {
		return nil, err
	}

	f, err := build([]sheet{requestSheet(reqs), feedbackSheet(fbs)})
	if err != nil {
		return nil, err
	}
	s.logger.Info("report built", "requests", len(reqs), "feedback", len(fbs))
	return f, nil
}

// Write streams the workbook to w.
func (s *Service) Write(ctx context.Context, filter request.ManagementFilter, w io.Writer) error {
	f, err := s.Workbook(ctx, filter)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func requestSheet(reqs []*request.Request) sheet {
	sh := sheet{
		title:  RequestsSheet,
		header: []string{"מזהה", "סטודנט", "סוג בקשה", "נושא", "סטטוס", "מרצה אחראי", "תאריך הגשה", "משוב"},
	}
	for _, r := range reqs {
		var lecturer, fb string
		if r.AssignedLecturer != nil {
			lecturer = r.AssignedLecturer.FullName
		}
		if r.Feedback != nil {
			fb = *r.Feedback
		}
		sh.rows = append(sh.rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.StudentName,
			r.RequestTypeDisplay,
			r.Subject,
			r.StatusDisplay,
			lecturer,
			r.SubmittedAt.Format(timeLayout),
			fb,
		})
	}
	return sh
}

func feedbackSheet(fbs []*feedback.Feedback) sheet {
	sh := sheet{
		title:  FeedbackSheet,
		header: []string{"מזהה", "משתמש", "דירוג", "קטגוריה", "תגובה", "תאריך"},
	}
	for _, f := range fbs {
		user := "אנונימי"
		if f.UserName != nil {
			user = *f.UserName
		}
		sh.rows = append(sh.rows, []string{
			strconv.FormatInt(f.ID, 10),
			user,
			f.RatingDisplay,
			f.CategoryDisplay,
			f.Comment,
			f.CreatedAt.Format(timeLayout),
		})
	}
	return sh
}

func build(sheets []sheet) (*excelize.File, error) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	rtl := true

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.title); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.title); err != nil {
			return nil, fmt.Errorf("new sheet: %w", err)
		}
		_ = f.SetSheetView(s.title, 0, &excelize.ViewOptions{RightToLeft: &rtl})

		for col, h := range s.header {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellStr(s.title, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		end, _ := excelize.CoordinatesToCellName(len(s.header), 1)
		_ = f.SetCellStyle(s.title, "A1", end, bold)
		_ = f.AutoFilter(s.title, "A1:"+end, nil)

		for r, row := range s.rows {
			for c, val := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
				if err := f.SetCellStr(s.title, cell, val); err != nil {
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}
		setWidths(f, s)
	}
	return f, nil
}

func setWidths(f *excelize.File, s sheet) {
	for c := range s.header {
		width := len([]rune(s.header[c]))
		for r := 0; r < len(s.rows) && r < 50; r++ {
			if l := len([]rune(s.rows[r][c])); l > width {
				width = l
			}
		}
		w := float64(width) * 1.1
		if w < 12 {
			w = 12
		}
		if w > 60 {
			w = 60
		}
		col, _ := excelize.ColumnNumberToName(c + 1)
		_ = f.SetColWidth(s.title, col, col, w)
	}
}
