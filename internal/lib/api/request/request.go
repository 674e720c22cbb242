package request

type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// Article carries create/update input. Pointers distinguish an absent field
// from an empty one: absent keeps the stored value on update, while an empty
// provided value is a validation failure.
type Article struct {
	Title  *string `json:"title,omitempty"`
	Body   *string `json:"body,omitempty"`
	Status *string `json:"status,omitempty"`
}
