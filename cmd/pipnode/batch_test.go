package main

import (
	"strings"
	"testing"

	"pipnet/internal/testutil"
	"pipnet/pkg/pip"
)

func TestParseHashRoundTrip(t *testing.T) {
	h, err := parseHash("0xab" + strings.Repeat("00", 31))
	if err != nil {
		t.Fatalf("parseHash: %v", err)
	}
	if h[0] != 0xab {
		t.Fatalf("expected first byte 0xab, got %x", h[0])
	}
}

func TestParseHashRejectsWrongLength(t *testing.T) {
	if _, err := parseHash("0xabcd"); err == nil {
		t.Fatal("expected an error for a short hash")
	}
}

func TestParseAddressRejectsInvalidHex(t *testing.T) {
	if _, err := parseAddress("0xzz"); err == nil {
		t.Fatal("expected an error for invalid hex")
	}
}

func TestBuildRequestHeaders(t *testing.T) {
	req, err := buildRequest(scenarioRequest{Kind: "headers", StartNumber: 5, Max: 3})
	if err != nil {
		t.Fatalf("buildRequest: %v", err)
	}
	hr, ok := req.(*pip.HeadersRequest)
	if !ok {
		t.Fatalf("expected *pip.HeadersRequest, got %T", req)
	}
	if hr.Max != 3 {
		t.Fatalf("expected max 3, got %d", hr.Max)
	}
}

func TestBuildRequestUnknownKind(t *testing.T) {
	if _, err := buildRequest(scenarioRequest{Kind: "nonsense"}); err == nil {
		t.Fatal("expected an error for an unknown request kind")
	}
}

func TestLoadScenarioBuildsBatch(t *testing.T) {
	sb, err := testutil.NewSandbox()
	if err != nil {
		t.Fatalf("new sandbox: %v", err)
	}
	defer sb.Cleanup()

	bodyHash := "0x01" + strings.Repeat("00", 31)
	scenario := "requests:\n" +
		"  - kind: headers\n" +
		"    start_number: 1\n" +
		"    max: 2\n" +
		"  - kind: body\n" +
		"    hash: \"" + bodyHash + "\"\n"
	if err := sb.WriteFile("scenario.yaml", []byte(scenario), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	batch, err := loadScenario(sb.Path("scenario.yaml"))
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if batch.Len() != 2 {
		t.Fatalf("expected 2 requests, got %d", batch.Len())
	}
}
