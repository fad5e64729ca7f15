package spreadsheet

import (
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	dgerrors "github.com/yungbote/dashgen-backend/internal/pkg/errors"
)

func workbook(t *testing.T, fill func(f *excelize.File)) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	fill(f)
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func TestFromUploadXLSX(t *testing.T) {
	data := workbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "month")
		f.SetCellValue("Sheet1", "B1", "sales")
		f.SetCellValue("Sheet1", "A2", "Jan")
		f.SetCellValue("Sheet1", "B2", 120)
		f.SetCellValue("Sheet1", "A3", "Feb, early")
		f.SetCellValue("Sheet1", "B3", 95.5)
	})

	got, err := FromUpload("sales.xlsx", data)
	if err != nil {
		t.Fatalf("FromUpload: %v", err)
	}
	want := "month,sales\nJan,120\n\"Feb, early\",95.5"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFromUploadXLSXSniffsZip(t *testing.T) {
	data := workbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "x")
	})
	got, err := FromUpload("", data)
	if err != nil || got != "x" {
		t.Fatalf("got %q err=%v", got, err)
	}
}

func TestFromUploadEmptyWorkbook(t *testing.T) {
	data := workbook(t, func(f *excelize.File) {})
	if _, err := FromUpload("empty.xlsx", data); !errors.Is(err, dgerrors.ErrEmptyCSV) {
		t.Fatalf("err=%v", err)
	}
}

func TestFromUploadCSV(t *testing.T) {
	got, err := FromUpload("data.csv", []byte("\uFEFFa,b\n1,2\n\n"))
	if err != nil {
		t.Fatalf("FromUpload: %v", err)
	}
	if got != "a,b\n1,2" {
		t.Fatalf("got %q", got)
	}
}

func TestFromUploadRejects(t *testing.T) {
	if _, err := FromUpload("blank.csv", []byte("   \n")); !errors.Is(err, dgerrors.ErrEmptyCSV) {
		t.Fatalf("blank: err=%v", err)
	}
	if _, err := FromUpload("report.pdf", []byte("%PDF")); !errors.Is(err, dgerrors.ErrUnsupportedFile) {
		t.Fatalf("pdf: err=%v", err)
	}
	if _, err := FromUpload("broken.xlsx", []byte("not a zip")); !errors.Is(err, dgerrors.ErrUnsupportedFile) {
		t.Fatalf("broken xlsx: err=%v", err)
	}
}

func TestPreview(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"abcdef", 3, "abc"},
		{"abc", 3, "abc"},
		{"abc", 0, "abc"},
		{"héllo", 2, "hé"},
	}
	for _, tc := range cases {
		if got := Preview(tc.in, tc.max); got != tc.want {
			t.Fatalf("Preview(%q,%d)=%q want %q", tc.in, tc.max, got, tc.want)
		}
	}
	long := strings.Repeat("x", 6000)
	if got := Preview(long, 5000); len(got) != 5000 {
		t.Fatalf("len=%d", len(got))
	}
}

func TestShape(t *testing.T) {
	rows, cols := Shape("a,b,c\n1,2\n3,4,5")
	if rows != 3 || cols != 3 {
		t.Fatalf("rows=%d cols=%d", rows, cols)
	}
}
