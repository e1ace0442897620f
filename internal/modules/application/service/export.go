package service

import (
	"fmt"

	"anoa.com/placementportal/internal/entity"
	"github.com/tealeg/xlsx/v3"
)

var exportHeaders = []string{
	"Application ID", "Student", "Email", "Branch", "Year", "CGPA",
	"Job", "Company", "Package", "Status", "Resume", "Applied At",
}

// BuildWorkbook renders applications as a single-sheet spreadsheet.
func BuildWorkbook(applications []*entity.Application) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Applications")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, header := range exportHeaders {
		headerRow.AddCell().Value = header
	}

	for _, application := range applications {
		row := sheet.AddRow()
		for _, value := range exportRow(application) {
			row.AddCell().Value = value
		}
	}

	return file, nil
}

func exportRow(a *entity.Application) []string {
	var studentName, email, branch, year, cgpa string
	if a.Student != nil {
		studentName = a.Student.FullName
		email = a.Student.Email
		if p := a.Student.StudentProfile; p != nil {
			branch = p.Branch
			year = fmt.Sprintf("%d", p.Year)
			if p.CGPA != nil {
				cgpa = fmt.Sprintf("%.2f", *p.CGPA)
			}
		}
	}

	var title, company, pkg string
	if a.Job != nil {
		title = a.Job.Title
		pkg = fmt.Sprintf("%.2f", a.Job.Package)
		if a.Job.Company != nil {
			company = a.Job.Company.CompanyName
		}
	}

	return []string{
		a.ID.String(), studentName, email, branch, year, cgpa,
		title, company, pkg, a.Status, a.ResumeURL,
		a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
