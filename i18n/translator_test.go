package i18n

import (
	"sync"
	"testing"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("truncated", nil); msg == "truncated" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("truncated", nil); msg == "stream ended before the value was complete" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_Placeholders(t *testing.T) {
	if msg := T("max_depth", map[string]string{"max": "8"}); msg != "nesting exceeds 8" {
		t.Fatalf("unexpected message %q", msg)
	}
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("unknown codes fall back to the code, got %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	if msg := T("io_error", nil); msg != "X:io_error" {
		t.Fatalf("custom translator not used, got %q", msg)
	}
	SetTranslator(nil)
	if msg := T("io_error", nil); msg != "i/o error" {
		t.Fatalf("nil resets to the dictionary, got %q", msg)
	}
}

func TestSetLanguage_ConcurrentWithT(t *testing.T) {
	defer SetLanguage("en")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if msg := T("truncated", nil); msg == "" || msg == "truncated" {
					t.Errorf("unexpected message %q", msg)
					return
				}
			}
		}()
		go func(ja bool) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if ja {
					SetLanguage("ja")
				} else {
					SetLanguage("en")
				}
			}
		}(i%2 == 0)
	}
	wg.Wait()
}
