package importer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/guttosm/packflow/internal/domain/models"
)

func TestRecordToPayment(t *testing.T) {
	row := func(s string) []string { return strings.Split(s, ",") }

	t.Run("full row", func(t *testing.T) {
		p, err := recordToPayment(row("Site,Acme,a@acme.test,07123456789,2024-01-01,2024-01-31,10,50,5,500,505,Accepted,2024-02-01T09:00:00Z,2024-02-03"))
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if p.Status != models.StatusAccepted || p.Total != 505 || p.HoursWorked != 10 {
			t.Fatalf("unexpected payment %+v", p)
		}
		if p.AcceptedAt == nil || !p.AcceptedAt.Equal(time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("accepted_at=%v", p.AcceptedAt)
		}
		if !p.CreatedAt.Equal(time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)) || !p.UpdatedAt.Equal(p.CreatedAt) {
			t.Fatalf("created_at=%v updated_at=%v", p.CreatedAt, p.UpdatedAt)
		}
	})

	t.Run("sparse row defaults", func(t *testing.T) {
		p, err := recordToPayment(row(",Acme,,,,,,,,,10,,2024-02-01,"))
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if p.Status != models.StatusPending || p.WorkPeriodStart != nil || p.AcceptedAt != nil || p.Rate != 0 {
			t.Fatalf("unexpected payment %+v", p)
		}
	})

	bad := []struct {
		name string
		rec  string
	}{
		{"missing client", "Site,,,,,,,,,,10,paid,2024-02-01,"},
		{"negative total", "Site,Acme,,,,,,,,,-10,paid,2024-02-01,"},
		{"nan rate", "Site,Acme,,,,,,NaN,,,10,paid,2024-02-01,"},
		{"unknown status", "Site,Acme,,,,,,,,,10,archived,2024-02-01,"},
		{"missing created_at", "Site,Acme,,,,,,,,,10,paid,,"},
		{"bad date", "Site,Acme,,,01/02/2024,,,,,,10,paid,2024-02-01,"},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := recordToPayment(row(tc.rec)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("\ufeff" + header)
	for i := 0; i < 5; i++ {
		sb.WriteString("Site,Acme,,,,,,,,,10,paid,2024-02-01,\n")
	}
	path := writeFile(t, t.TempDir(), "a.csv", sb.String())

	payments, err := parseFile(context.Background(), path, "u1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(payments) != 5 || payments[4].UserID != "u1" || payments[4].Total != 10 {
		t.Fatalf("payments=%+v", payments)
	}
}

func TestParseFile_Failures(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "empty", content: "", want: "read header"},
		{name: "short header", content: "client_name,total\n", want: "invalid header length"},
		{name: "column count", content: header + "Site,Acme\n", want: "invalid column count on line 2"},
		{name: "bad row", content: header + "Site,Acme,,,,,,,,,abc,paid,2024-02-01,\n", want: "line 2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "a.csv", tc.content)
			payments, err := parseFile(context.Background(), path, "u1")
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
			if payments != nil {
				t.Fatalf("failed file returned %d rows", len(payments))
			}
		})
	}

	t.Run("cancelled", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "a.csv", sampleFile())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := parseFile(ctx, path, "u1"); err == nil {
			t.Fatalf("expected context error")
		}
	})
}
