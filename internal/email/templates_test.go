package email

import (
	"strings"
	"testing"
)

func TestRenderOrderConfirmation(t *testing.T) {
	content, err := renderEmailTemplate("order_confirmation.html", orderConfirmationData{
		Reference: "ORD-AB12CD34",
		Total:     "27.00",
	})
	if err != nil {
		t.Fatalf("renderEmailTemplate: %v", err)
	}
	if !strings.Contains(content, "ORD-AB12CD34") {
		t.Fatalf("reference missing from %q", content)
	}
	if !strings.Contains(content, "27.00") {
		t.Fatalf("total missing from %q", content)
	}
}

func TestRenderUnknownTemplateFails(t *testing.T) {
	if _, err := renderEmailTemplate("nonexistent.html", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}
