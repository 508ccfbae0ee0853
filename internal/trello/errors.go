package trello

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure categories the Trello layer and
// the analytics core may surface. The HTTP boundary maps kinds to status
// codes; nothing relies on concrete error types beyond *Error.
type ErrorKind string

const (
	// KindNotFound covers boards, lists, cards, labels and checklists that
	// cannot be resolved by the given name or id.
	KindNotFound ErrorKind = "not_found"
	// KindAmbiguous is raised when an exact-name card search matches more
	// than one card; the system refuses to guess.
	KindAmbiguous ErrorKind = "ambiguous_match"
	// KindUpstream covers transport, auth and rate-limit failures from the
	// Trello API, with the upstream HTTP status when known.
	KindUpstream ErrorKind = "upstream_failure"
	// KindGeneration is raised when the narrative collaborator is not
	// configured or returns unusable output.
	KindGeneration ErrorKind = "generation_unavailable"
)

// Error is the single error type of the Trello layer. UpstreamStatus is the
// HTTP status reported by the Trello API, or 0 when not applicable.
type Error struct {
	Kind           ErrorKind
	Message        string
	UpstreamStatus int
	cause          error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// IsKind reports whether err is (or wraps) a *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == kind
}

// NewBoardNotFound reports a board that matched neither an id nor a name.
func NewBoardNotFound(board string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("Board %q introuvable", board),
	}
}

// NewListNotFound reports a missing list; board may be empty.
func NewListNotFound(list, board string) *Error {
	msg := fmt.Sprintf("Liste %q introuvable", list)
	if board != "" {
		msg += fmt.Sprintf(" sur le board %q", board)
	}
	return &Error{Kind: KindNotFound, Message: msg}
}

// NewCardNotFound reports a card whose exact-name search returned nothing.
func NewCardNotFound(card, board string) *Error {
	msg := fmt.Sprintf("Tâche %q introuvable", card)
	if board != "" {
		msg += fmt.Sprintf(" sur le board %q", board)
	}
	return &Error{Kind: KindNotFound, Message: msg}
}

// NewLabelNotFound reports a label matched neither by name nor by color.
func NewLabelNotFound(label, board string) *Error {
	msg := fmt.Sprintf("Label %q introuvable", label)
	if board != "" {
		msg += fmt.Sprintf(" sur le board %q", board)
	}
	return &Error{Kind: KindNotFound, Message: msg}
}

// NewChecklistNotFound reports a checklist absent from a card.
func NewChecklistNotFound(checklist, card string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("Checklist %q introuvable sur la carte %q", checklist, card),
	}
}

// NewCheckItemNotFound reports an item absent from a checklist.
func NewCheckItemNotFound(item, checklist string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("Item %q introuvable dans la checklist %q", item, checklist),
	}
}

// NewAmbiguousCard reports an exact-name search matching several cards.
func NewAmbiguousCard(card string, count int) *Error {
	return &Error{
		Kind: KindAmbiguous,
		Message: fmt.Sprintf(
			"Plusieurs tâches trouvées avec le nom %q (%d résultats). Veuillez être plus spécifique.",
			card, count),
	}
}

// NewUpstream wraps a transport or API failure, keeping the upstream HTTP
// status when known.
func NewUpstream(message string, status int, cause error) *Error {
	return &Error{
		Kind:           KindUpstream,
		Message:        message,
		UpstreamStatus: status,
		cause:          cause,
	}
}

// NewGenerationUnavailable reports a missing or unusable narrative
// collaborator.
func NewGenerationUnavailable(message string) *Error {
	return &Error{Kind: KindGeneration, Message: message}
}

// WrapUpstream passes *Error through unchanged and wraps anything else as
// an upstream failure with the given context prefix.
func WrapUpstream(context string, err error) error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return err
	}
	return NewUpstream(fmt.Sprintf("%s: %v", context, err), 0, err)
}
