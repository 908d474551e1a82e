package dashboard

import (
	"path/filepath"
	"strings"
	"testing"
)

type memReporter struct {
	infos  []string
	errors []string
}

func (r *memReporter) Info(msg string)  { r.infos = append(r.infos, msg) }
func (r *memReporter) Error(msg string) { r.errors = append(r.errors, msg) }

func newTestInterpreter(t *testing.T) (*Interpreter, *Model, *memReporter) {
	t.Helper()
	model := NewModel()
	rep := &memReporter{}
	hotkeys, err := LoadHotkeys(filepath.Join(t.TempDir(), "hotkeys.yaml"))
	if err != nil {
		t.Fatalf("LoadHotkeys: %v", err)
	}
	return NewInterpreter(model, rep, hotkeys), model, rep
}

func TestSubmitUnknownCommand(t *testing.T) {
	i, _, rep := newTestInterpreter(t)
	if i.Submit("bogus-cmd", nil) {
		t.Fatal("unknown command reported as recognized")
	}
	if len(rep.errors) != 0 {
		t.Fatalf("errors = %v", rep.errors)
	}
}

func TestSubmitAliasAndCaseInsensitive(t *testing.T) {
	i, model, _ := newTestInterpreter(t)
	if !i.Submit("A", []string{"-g", "Solar", "-n", "Battery", "-t", "gauge"}) {
		t.Fatal("alias not recognized")
	}
	groups := model.Groups()
	if len(groups) != 1 || groups[0].Name != "Solar" {
		t.Fatalf("groups = %+v", groups)
	}
	if groups[0].Elements[0].Type != TypeGauge {
		t.Fatalf("element = %+v", groups[0].Elements[0])
	}
}

func TestAddWithBounds(t *testing.T) {
	i, model, rep := newTestInterpreter(t)
	ok := i.Submit("add", []string{"-g", "Env", "-n", "Temp", "-t", "gauge", "-u", "C", "-min", "-40", "-max", "120"})
	if !ok {
		t.Fatal("add not recognized")
	}
	if len(rep.errors) != 0 {
		t.Fatalf("errors = %v", rep.errors)
	}
	el := model.Groups()[0].Elements[0]
	if el.Min != -40 || el.Max != 120 || el.Unit != "C" {
		t.Fatalf("element = %+v", el)
	}
}

func TestAddRejectsUnknownType(t *testing.T) {
	i, _, rep := newTestInterpreter(t)
	if !i.Submit("add", []string{"-g", "X", "-n", "Y", "-t", "hologram"}) {
		t.Fatal("recognized command must return true even on failure")
	}
	if len(rep.errors) != 1 || !strings.Contains(rep.errors[0], "hologram") {
		t.Fatalf("errors = %v", rep.errors)
	}
}

func TestRemoveElementAndGroup(t *testing.T) {
	i, model, _ := newTestInterpreter(t)
	i.Submit("add", []string{"-g", "Solar", "-n", "Battery"})
	i.Submit("add", []string{"-g", "Solar", "-n", "Inverter"})

	i.Submit("remove", []string{"-g", "Solar", "-n", "Battery"})
	if n := len(model.Groups()[0].Elements); n != 1 {
		t.Fatalf("elements = %d, want 1", n)
	}

	i.Submit("rm", []string{"-g", "Solar"})
	if len(model.Groups()) != 0 {
		t.Fatalf("groups = %+v", model.Groups())
	}
}

func TestSetValue(t *testing.T) {
	i, model, rep := newTestInterpreter(t)
	i.Submit("add", []string{"-g", "Env", "-n", "Temp", "-t", "gauge", "-min", "-40", "-max", "120"})

	if !i.Submit("set", []string{"-g", "Env", "-n", "Temp", "-v", "21.5"}) {
		t.Fatal("set not recognized")
	}
	if got := model.Groups()[0].Elements[0].Value; got != "21.5" {
		t.Fatalf("value = %q", got)
	}

	i.Submit("set", []string{"-g", "Env", "-n", "Temp", "-v", "500"})
	if len(rep.errors) != 1 || !strings.Contains(rep.errors[0], "out of range") {
		t.Fatalf("errors = %v", rep.errors)
	}

	i.Submit("set", []string{"-g", "Env", "-n", "Temp", "-v", "warm"})
	if len(rep.errors) != 2 || !strings.Contains(rep.errors[1], "numeric") {
		t.Fatalf("errors = %v", rep.errors)
	}
}

func TestThemeCommand(t *testing.T) {
	i, model, rep := newTestInterpreter(t)
	if !i.Submit("theme", []string{"-s", "matrix"}) {
		t.Fatal("theme not recognized")
	}
	if model.Theme() != "matrix" {
		t.Fatalf("theme = %q", model.Theme())
	}

	i.Submit("theme", []string{"-s", "neon"})
	if len(rep.errors) != 1 || !strings.Contains(rep.errors[0], "neon") {
		t.Fatalf("errors = %v", rep.errors)
	}
	if model.Theme() != "matrix" {
		t.Fatalf("theme changed on error: %q", model.Theme())
	}
}

func TestHotkeyBindAndList(t *testing.T) {
	i, _, rep := newTestInterpreter(t)
	if !i.Submit("hotkey", []string{"-k", "F1", "-f", "startup.cmds"}) {
		t.Fatal("hotkey not recognized")
	}
	rep.infos = nil
	i.Submit("hotkey", nil)
	if len(rep.infos) != 1 || !strings.Contains(rep.infos[0], "F1") {
		t.Fatalf("infos = %v", rep.infos)
	}
}

func TestClearInvokesHook(t *testing.T) {
	i, _, _ := newTestInterpreter(t)
	cleared := false
	i.SetClearHistory(func() { cleared = true })
	i.Submit("clear", nil)
	if !cleared {
		t.Fatal("clear hook not invoked")
	}
}

func TestCatalogMatchesRegistration(t *testing.T) {
	i, _, _ := newTestInterpreter(t)
	catalog := i.Catalog()
	if len(catalog) != 8 {
		t.Fatalf("catalog = %d commands", len(catalog))
	}
	if catalog[0].Name != "add" || catalog[0].Usage == "" {
		t.Fatalf("catalog[0] = %+v", catalog[0])
	}
}

func TestGroupSummaries(t *testing.T) {
	i, _, _ := newTestInterpreter(t)
	i.Submit("add", []string{"-g", "Solar", "-n", "Battery"})
	i.Submit("add", []string{"-g", "Solar", "-n", "Inverter"})
	i.Submit("add", []string{"-g", "Garage", "-n", "Door"})

	sums := i.GroupSummaries()
	if len(sums) != 2 {
		t.Fatalf("summaries = %+v", sums)
	}
	if sums[0].Name != "Solar" || sums[0].Elements != 2 {
		t.Fatalf("summaries = %+v", sums)
	}
}
