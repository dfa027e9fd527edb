package browser

import (
	"reflect"
	"testing"
)

func TestOpenRejectsNonHTTP(t *testing.T) {
	var launched []string
	orig := start
	start = func(name string, args ...string) error {
		launched = append(launched, args[len(args)-1])
		return nil
	}
	t.Cleanup(func() { start = orig })

	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://www.fool.com/investing/2015/05/12/apple.aspx", false},
		{"http://example.com", false},
		{"file:///etc/passwd", true},
		{"javascript:alert(1)", true},
		{"ftp://example.com", true},
		{"", true},
	}

	for _, tt := range tests {
		err := Open(tt.url)
		if tt.wantErr && err == nil {
			t.Errorf("Open(%q): expected error, got nil", tt.url)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("Open(%q): unexpected error %v", tt.url, err)
		}
	}
	if len(launched) != 2 {
		t.Errorf("expected 2 launches, got %d: %v", len(launched), launched)
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{"darwin", "open", []string{"https://a.com"}},
		{"linux", "xdg-open", []string{"https://a.com"}},
		{"freebsd", "xdg-open", []string{"https://a.com"}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", "https://a.com"}},
	}
	for _, tt := range tests {
		name, args := command(tt.goos, "https://a.com")
		if name != tt.wantName || !reflect.DeepEqual(args, tt.wantArgs) {
			t.Errorf("command(%q) = %s %v, want %s %v", tt.goos, name, args, tt.wantName, tt.wantArgs)
		}
	}
}
