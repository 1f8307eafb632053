package xlsx

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/dossier/internal/core/domain"
)

func TestWriteDocuments(t *testing.T) {
	docs := []domain.Document{
		{
			Name:       "facture_edf_mars.pdf",
			Category:   domain.CategoryInvoice,
			Status:     domain.StatusVerified,
			ValidUntil: "N/A",
			AddedOn:    "15/03/2024",
			Tags:       []string{"Facture Électricité", "Justificatif de Domicile"},
			Size:       "0.50Mb",
		},
		{Name: "scan.png", Category: domain.CategoryGeneric, Status: domain.StatusError, Tags: []string{"Erreur de Traitement"}},
	}

	var buf bytes.Buffer
	if err := NewWriter().WriteDocuments(&buf, docs); err != nil {
		t.Fatalf("WriteDocuments() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Nom" || rows[0][6] != "Taille" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][5] != "Facture Électricité, Justificatif de Domicile" || rows[1][1] != "invoice_like" {
		t.Fatalf("unexpected row %v", rows[1])
	}
	if rows[2][2] != "Erreur" {
		t.Fatalf("unexpected status %v", rows[2])
	}
}

func TestWriteEmptyCollection(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter().WriteDocuments(&buf, nil); err != nil {
		t.Fatalf("WriteDocuments() error = %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if f.GetSheetName(0) != SheetName {
		t.Fatalf("expected sheet %s, got %s", SheetName, f.GetSheetName(0))
	}
}
