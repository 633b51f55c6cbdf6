package types

// Role is the author of a conversation message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) String() string {
	return string(r)
}

// Slot is an attribute the assistant may ask the visitor for.
type Slot string

const (
	SlotName    Slot = "name"
	SlotContact Slot = "contact"
	SlotDate    Slot = "date"
)

func (s Slot) String() string {
	return string(s)
}
