// Package domain defines typed identifiers shared across packages. Each ID is
// a distinct type over uuid.UUID so the compiler rejects cross-entity mixups
// (passing a RecipeID where an IngredientID is expected).
package domain

import (
	"github.com/google/uuid"

	"larder/pkg/apperr"
)

type (
	UserID         uuid.UUID
	IngredientID   uuid.UUID
	LeftoverID     uuid.UUID
	RecipeID       uuid.UUID
	ListID         uuid.UUID
	ListItemID     uuid.UUID
	ConversationID uuid.UUID
	MessageID      uuid.UUID
)

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id IngredientID) String() string   { return uuid.UUID(id).String() }
func (id LeftoverID) String() string     { return uuid.UUID(id).String() }
func (id RecipeID) String() string       { return uuid.UUID(id).String() }
func (id ListID) String() string         { return uuid.UUID(id).String() }
func (id ListItemID) String() string     { return uuid.UUID(id).String() }
func (id ConversationID) String() string { return uuid.UUID(id).String() }
func (id MessageID) String() string      { return uuid.UUID(id).String() }

// The text marshalers keep IDs as canonical UUID strings on the wire;
// without them a defined type over uuid.UUID would serialize as a byte array.

func (id UserID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id IngredientID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id LeftoverID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id RecipeID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id ListID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id ListItemID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id ConversationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id MessageID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = UserID(u)
	return nil
}

func (id *IngredientID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = IngredientID(u)
	return nil
}

func (id *LeftoverID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = LeftoverID(u)
	return nil
}

func (id *RecipeID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = RecipeID(u)
	return nil
}

func (id *ListID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = ListID(u)
	return nil
}

func (id *ListItemID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = ListItemID(u)
	return nil
}

func (id *ConversationID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = ConversationID(u)
	return nil
}

func (id *MessageID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = MessageID(u)
	return nil
}

func (id UserID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id IngredientID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id LeftoverID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id RecipeID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id ListID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id ListItemID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ConversationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id MessageID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }

// parseUUID enforces the boundary invariant: IDs must be valid, non-nil UUIDs.
func parseUUID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, apperr.New(apperr.CodeInvalidInput, "id must not be empty")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Newf(apperr.CodeInvalidInput, "id %q is not a valid UUID", raw)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, apperr.New(apperr.CodeInvalidInput, "id must not be the nil UUID")
	}
	return parsed, nil
}

func ParseUserID(raw string) (UserID, error) {
	u, err := parseUUID(raw)
	return UserID(u), err
}

func ParseIngredientID(raw string) (IngredientID, error) {
	u, err := parseUUID(raw)
	return IngredientID(u), err
}

func ParseLeftoverID(raw string) (LeftoverID, error) {
	u, err := parseUUID(raw)
	return LeftoverID(u), err
}

func ParseRecipeID(raw string) (RecipeID, error) {
	u, err := parseUUID(raw)
	return RecipeID(u), err
}

func ParseListID(raw string) (ListID, error) {
	u, err := parseUUID(raw)
	return ListID(u), err
}

func ParseListItemID(raw string) (ListItemID, error) {
	u, err := parseUUID(raw)
	return ListItemID(u), err
}

func ParseConversationID(raw string) (ConversationID, error) {
	u, err := parseUUID(raw)
	return ConversationID(u), err
}

func ParseMessageID(raw string) (MessageID, error) {
	u, err := parseUUID(raw)
	return MessageID(u), err
}
