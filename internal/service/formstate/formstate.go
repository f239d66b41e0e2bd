package formstate

import (
	"fmt"
	"time"

	"signup-gateway/internal/domain"
	"signup-gateway/pkg/errors"
)

// Phase is the visual state of a sign-in or sign-up form
type Phase string

const (
	PhaseEditable Phase = "editable"
	PhaseLoading  Phase = "loading"
	PhaseSuccess  Phase = "success"
	PhaseFailed   Phase = "failed"
)

// Event drives a phase change
type Event string

const (
	EventSubmit  Event = "submit"
	EventSucceed Event = "succeed"
	EventFail    Event = "fail"
	EventReset   Event = "reset"
)

var transitions = map[Phase]map[Event]Phase{
	PhaseEditable: {EventSubmit: PhaseLoading},
	PhaseLoading:  {EventSucceed: PhaseSuccess, EventFail: PhaseFailed},
	PhaseFailed:   {EventReset: PhaseEditable, EventSubmit: PhaseLoading},
}

// Transition returns the phase reached from `from` on ev. Success is
// terminal.
func Transition(from Phase, ev Event) (Phase, error) {
	if next, ok := transitions[from][ev]; ok {
		return next, nil
	}
	return from, fmt.Errorf("invalid form transition %s -(%s)->", from, ev)
}

// View is what the client renders after a request.
type View struct {
	Phase           Phase  `json:"phase"`
	Message         string `json:"message,omitempty"`
	SubmitEnabled   bool   `json:"submitEnabled"`
	RedirectURL     string `json:"redirectUrl,omitempty"`
	RedirectAfterMs int64  `json:"redirectAfterMs,omitempty"`
}

// Editable is the initial view
func Editable() View {
	return View{Phase: PhaseEditable, SubmitEnabled: true}
}

// Loading is shown while a request is pending. The submit control stays
// disabled until it resolves.
func Loading() View {
	return View{Phase: PhaseLoading}
}

// Success builds the terminal view for method with the redirect to follow.
func Success(method domain.AuthMethod, redirectURL string, after time.Duration) View {
	return View{
		Phase:           PhaseSuccess,
		Message:         successMessage(method),
		RedirectURL:     redirectURL,
		RedirectAfterMs: after.Milliseconds(),
	}
}

// Failed maps err to the message shown for method. The form becomes
// editable again, except for a locked verification session which only a
// resend can reopen.
func Failed(method domain.AuthMethod, err error) View {
	return View{
		Phase:         PhaseFailed,
		Message:       Message(method, err),
		SubmitEnabled: !errors.IsType(err, errors.ErrorTypeLocked),
	}
}

// Message returns the user-facing text for err.
func Message(method domain.AuthMethod, err error) string {
	appErr := errors.AsAppError(err)
	switch appErr.Type {
	case errors.ErrorTypeValidation, errors.ErrorTypeLocked, errors.ErrorTypeConflict, errors.ErrorTypeNotFound:
		return appErr.Message
	case errors.ErrorTypeAuthorization:
		return errors.AccessDeniedMessage
	case errors.ErrorTypeConfiguration:
		return "Service is not configured. Please try again later."
	default:
		return failureMessage(method)
	}
}

func successMessage(method domain.AuthMethod) string {
	switch method {
	case domain.AuthMethodManual:
		return "Account Created!"
	case domain.AuthMethodManualSignin:
		return "Sign-In Successful!"
	case domain.AuthMethodSSO:
		return "Verification successful! Redirecting..."
	default:
		return "Signed in successfully! Redirecting..."
	}
}

func failureMessage(method domain.AuthMethod) string {
	switch method {
	case domain.AuthMethodGoogle:
		return "Failed to sign in with Google. Please try again."
	case domain.AuthMethodMicrosoft:
		return "Failed to complete sign-in. Please try again."
	case domain.AuthMethodManual:
		return "Failed to create account. Please try again."
	case domain.AuthMethodManualSignin:
		return "Failed to sign in. Please check your credentials and try again."
	case domain.AuthMethodSSO:
		return "Failed to send verification code. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
