package domain

import "time"

// Channel is the contact method used for a run. It decides the action URL
// shape, whether a message body is required, and which attempt status a
// successful trigger is labeled with.
type Channel string

const (
	ChannelCall     Channel = "call"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelCall, ChannelSMS, ChannelWhatsApp:
		return true
	}
	return false
}

// RequiresBody reports whether the channel needs a non-empty message body.
func (c Channel) RequiresBody() bool {
	return c == ChannelSMS || c == ChannelWhatsApp
}

// SupportsBroadcast reports whether the channel may run in broadcast mode.
// Only WhatsApp opens a secondary view; call and SMS replace the current
// view and therefore cannot fan out.
func (c Channel) SupportsBroadcast() bool {
	return c == ChannelWhatsApp
}

// DispatchedStatus is the attempt status recorded after a successful trigger.
// These are attempt labels, not delivery proof: the platform gives no
// delivery signal for tel:/sms:/wa.me actions.
func (c Channel) DispatchedStatus() AttemptStatus {
	switch c {
	case ChannelCall:
		return StatusInitiated
	case ChannelSMS:
		return StatusSMSSent
	case ChannelWhatsApp:
		return StatusWhatsAppOpened
	}
	return StatusFailed
}

// PacingKind selects how the engine advances between targets.
type PacingKind string

const (
	// PacingAutomatic advances on its own after a fixed delay.
	PacingAutomatic PacingKind = "automatic"
	// PacingManual suspends after each dispatch until an explicit advance.
	PacingManual PacingKind = "manual"
	// PacingBroadcast fires all targets with a short stagger and no
	// per-target wait. WhatsApp only.
	PacingBroadcast PacingKind = "broadcast"
)

func (k PacingKind) Valid() bool {
	switch k {
	case PacingAutomatic, PacingManual, PacingBroadcast:
		return true
	}
	return false
}

// PacingMode bundles the kind with its timing parameters. Delay applies to
// automatic mode, Stagger to broadcast mode; zero values fall back to the
// channel defaults from configuration.
type PacingMode struct {
	Kind    PacingKind
	Delay   time.Duration
	Stagger time.Duration
}

// ActionDescriptor is what the channel policy hands to the platform
// dispatcher: a URL to launch and whether launching it replaces the current
// view (call and SMS yield control to the native app) or opens/reuses a
// secondary view (WhatsApp).
type ActionDescriptor struct {
	URL      string `json:"url"`
	Blocking bool   `json:"blocking"`
}
