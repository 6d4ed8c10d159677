package google

import (
	"os"
	"path/filepath"
	"testing"
)

func TestColumnLetter(t *testing.T) {
	cases := []struct {
		idx  int
		want string
	}{
		{0, "A"},
		{1, "B"},
		{3, "D"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
	}
	for _, tc := range cases {
		if got := columnLetter(tc.idx); got != tc.want {
			t.Fatalf("%d: got %q want %q", tc.idx, got, tc.want)
		}
	}
}

func TestToStrings(t *testing.T) {
	got := toStrings([]any{" 2025-03-09 ", 12.5, "Groceries", nil})
	want := []string{"2025-03-09", "12.5", "Groceries", "<nil>"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestToAnyRow(t *testing.T) {
	got := toAnyRow([]string{"a", "b"})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %v", got)
	}
}

func TestResolveCredentialsInlineJSON(t *testing.T) {
	data, err := resolveCredentials(Credentials{JSON: `{"type":"service_account"}`})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if string(data) != `{"type":"service_account"}` {
		t.Fatalf("got %s", data)
	}
}

func TestResolveCredentialsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte(`{"type":"service_account"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := resolveCredentials(Credentials{File: path})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("empty credentials")
	}
}

func TestResolveCredentialsMissing(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	if _, err := resolveCredentials(Credentials{}); err == nil {
		t.Fatalf("expected error")
	}
}
