package channel

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/okanbasoglu/outreach-dispatch-service/internal/domain"
)

// Validation failures that prevent a run from starting. Everything else that
// can go wrong during a run is attempt-scoped and never aborts the queue.
var (
	ErrEmptyQueue            = errors.New("target queue is empty")
	ErrUnknownChannel        = errors.New("unknown channel")
	ErrUnknownPacing         = errors.New("unknown pacing mode")
	ErrMessageBodyRequired   = errors.New("message body is required for this channel")
	ErrBroadcastNotSupported = errors.New("broadcast mode is only supported for whatsapp")
)

// ValidateRun fails fast before any dispatch begins: the engine must not
// start a run it cannot complete.
func ValidateRun(targets []string, ch domain.Channel, body string, mode domain.PacingMode) error {
	if !ch.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownChannel, ch)
	}
	if !mode.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPacing, mode.Kind)
	}
	if len(targets) == 0 {
		return ErrEmptyQueue
	}
	if ch.RequiresBody() && strings.TrimSpace(body) == "" {
		return fmt.Errorf("%w: %s", ErrMessageBodyRequired, ch)
	}
	if mode.Kind == domain.PacingBroadcast && !ch.SupportsBroadcast() {
		return ErrBroadcastNotSupported
	}
	return nil
}

// BuildAction produces the platform action descriptor for one target.
//
// Call and SMS keep the target untouched (the native dialer/composer copes
// with separators); WhatsApp links require a digits-only number.
func BuildAction(target string, ch domain.Channel, body string) (domain.ActionDescriptor, error) {
	switch ch {
	case domain.ChannelCall:
		return domain.ActionDescriptor{
			URL:      "tel:" + target,
			Blocking: true,
		}, nil

	case domain.ChannelSMS:
		return domain.ActionDescriptor{
			URL:      fmt.Sprintf("sms:%s?body=%s", target, url.QueryEscape(body)),
			Blocking: true,
		}, nil

	case domain.ChannelWhatsApp:
		digits := digitsOnly(target)
		if digits == "" {
			return domain.ActionDescriptor{}, fmt.Errorf("target %q has no digits for a wa.me link", target)
		}
		return domain.ActionDescriptor{
			URL:      fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(body)),
			Blocking: false,
		}, nil
	}

	return domain.ActionDescriptor{}, fmt.Errorf("%w: %q", ErrUnknownChannel, ch)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
