package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()
	if info.Version != Version || info.Commit != Commit || info.Date != Date {
		t.Errorf("Get() = %+v, want package vars", info)
	}
	if !strings.HasPrefix(info.Go, "go") {
		t.Errorf("Get().Go = %q, want a Go version", info.Go)
	}
}

func TestTemplate(t *testing.T) {
	if !strings.Contains(Template(), "{{.Name}}") {
		t.Errorf("Template() = %q, want cobra name placeholder", Template())
	}
	if !strings.Contains(String(), Version) {
		t.Errorf("String() = %q, want version", String())
	}
}
