package channel

import (
	"errors"
	"testing"

	"github.com/okanbasoglu/outreach-dispatch-service/internal/domain"
)

func TestBuildAction_Call(t *testing.T) {
	desc, err := BuildAction("555-0100", domain.ChannelCall, "")
	if err != nil {
		t.Fatalf("BuildAction returned error: %v", err)
	}

	if desc.URL != "tel:555-0100" {
		t.Errorf("expected URL %q, got %q", "tel:555-0100", desc.URL)
	}
	if !desc.Blocking {
		t.Errorf("expected call action to be blocking")
	}
}

func TestBuildAction_SMSEncodesBody(t *testing.T) {
	desc, err := BuildAction("555-0100", domain.ChannelSMS, "hello there & welcome")
	if err != nil {
		t.Fatalf("BuildAction returned error: %v", err)
	}

	want := "sms:555-0100?body=hello+there+%26+welcome"
	if desc.URL != want {
		t.Errorf("expected URL %q, got %q", want, desc.URL)
	}
	if !desc.Blocking {
		t.Errorf("expected sms action to be blocking")
	}
}

func TestBuildAction_WhatsAppStripsNonDigits(t *testing.T) {
	desc, err := BuildAction("+90 (555) 123-45-67", domain.ChannelWhatsApp, "hi")
	if err != nil {
		t.Fatalf("BuildAction returned error: %v", err)
	}

	want := "https://wa.me/905551234567?text=hi"
	if desc.URL != want {
		t.Errorf("expected URL %q, got %q", want, desc.URL)
	}
	if desc.Blocking {
		t.Errorf("expected whatsapp action to be non-blocking")
	}
}

func TestBuildAction_WhatsAppNoDigits(t *testing.T) {
	if _, err := BuildAction("no-digits-here", domain.ChannelWhatsApp, "hi"); err == nil {
		t.Fatalf("expected error for target without digits")
	}
}

func TestValidateRun(t *testing.T) {
	auto := domain.PacingMode{Kind: domain.PacingAutomatic}
	broadcast := domain.PacingMode{Kind: domain.PacingBroadcast}

	tests := []struct {
		name    string
		targets []string
		channel domain.Channel
		body    string
		mode    domain.PacingMode
		wantErr error
	}{
		{"call without body is fine", []string{"1"}, domain.ChannelCall, "", auto, nil},
		{"empty queue", nil, domain.ChannelCall, "", auto, ErrEmptyQueue},
		{"sms needs body", []string{"1"}, domain.ChannelSMS, "", auto, ErrMessageBodyRequired},
		{"whatsapp needs non-blank body", []string{"123"}, domain.ChannelWhatsApp, "   ", auto, ErrMessageBodyRequired},
		{"unknown channel", []string{"1"}, domain.Channel("fax"), "x", auto, ErrUnknownChannel},
		{"unknown pacing", []string{"1"}, domain.ChannelCall, "", domain.PacingMode{Kind: "warp"}, ErrUnknownPacing},
		{"broadcast sms rejected", []string{"1"}, domain.ChannelSMS, "x", broadcast, ErrBroadcastNotSupported},
		{"broadcast whatsapp allowed", []string{"1"}, domain.ChannelWhatsApp, "x", broadcast, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRun(tt.targets, tt.channel, tt.body, tt.mode)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
