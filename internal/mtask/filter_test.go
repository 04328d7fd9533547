package mtask

import (
	"testing"

	"kyri56xcaesar/abac-front/internal/utils"
)

func ids(tasks []Task) []int64 {
	return utils.Map(tasks, func(t Task) int64 { return t.ID })
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var sample = []Task{
	{ID: 1, Status: Pending, DueDate: "2024-03-01"},
	{ID: 2, Status: Done, DueDate: "2024-03-10"},
	{ID: 3, Status: Done},
	{ID: 4, Status: InProgress, DueDate: "2024-03-15T23:30:00-05:00"},
	{ID: 5, Status: Failed, DueDate: "not a date"},
}

func TestFilter_Apply(t *testing.T) {
	tests := []struct {
		name   string
		status string
		start  string
		end    string
		want   []int64
	}{
		{"no predicates", "", "", "", []int64{1, 2, 3, 4, 5}},
		{"status done", "done", "", "", []int64{2, 3}},
		{"start only excludes earlier and undated", "", "2024-03-10", "", []int64{2, 4}},
		{"end only is inclusive", "", "", "2024-03-10", []int64{1, 2}},
		{"range keeps written day of timestamps", "", "2024-03-15", "2024-03-15", []int64{4}},
		{"status and range", "done", "2024-03-01", "2024-03-31", []int64{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFilter(tt.status, tt.start, tt.end)
			if err != nil {
				t.Fatalf("ParseFilter() error = %v", err)
			}
			if got := ids(f.Apply(sample)); !equalIDs(got, tt.want) {
				t.Errorf("Apply() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestParseFilter_Rejects(t *testing.T) {
	tests := []struct {
		name, status, start, end, field string
	}{
		{"unknown status", "archived", "", "", "status"},
		{"bad start", "", "03/01/2024", "", "start"},
		{"bad end", "", "", "yesterday", "end"},
		{"start after end", "", "2024-04-01", "2024-03-01", "start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilter(tt.status, tt.start, tt.end)
			v, ok := utils.AsValidation(err)
			if !ok {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if v.Field != tt.field {
				t.Errorf("Field = %q, expected %q", v.Field, tt.field)
			}
		})
	}
}

func TestFilter_Values(t *testing.T) {
	f, err := ParseFilter("", "2024-03-01T10:00:00Z", "")
	if err != nil {
		t.Fatal(err)
	}
	if f.StartValue() != "2024-03-01" || f.EndValue() != "" {
		t.Errorf("values = %q %q", f.StartValue(), f.EndValue())
	}
	if f.IsZero() {
		t.Error("filter with a start bound is not zero")
	}
}

func TestFilter_ZonelessTimestamps(t *testing.T) {
	tasks := []Task{
		{ID: 1, DueDate: "2024-03-15 00:00:00"},
		{ID: 2, DueDate: "2024-03-15T09:30:00"},
		{ID: 3, DueDate: "2024-03-16 00:00:00"},
	}
	f, err := ParseFilter("", "2024-03-15", "2024-03-15")
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(f.Apply(tasks)); !equalIDs(got, []int64{1, 2}) {
		t.Errorf("Apply() = %v, expected [1 2]", got)
	}
	if got := dueValue("2024-03-15T09:30:00"); got != "2024-03-15" {
		t.Errorf("dueValue() = %q", got)
	}
}
