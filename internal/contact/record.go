package contact

// Field identifies one of the five contact fields.
type Field int

const (
	FieldName Field = iota
	FieldEmail
	FieldPhone
	FieldLocation
	FieldLinkedIn
)

var fieldKeys = [...]string{"name", "email", "phone", "location", "linkedIn"}

var fieldLabels = [...]string{"Nom complet", "Email", "Téléphone", "Ville / Pays", "LinkedIn"}

// Fields lists every field in export order.
func Fields() []Field {
	return []Field{FieldName, FieldEmail, FieldPhone, FieldLocation, FieldLinkedIn}
}

// Key returns the JSON key of the field.
func (f Field) Key() string {
	if f < 0 || int(f) >= len(fieldKeys) {
		return ""
	}
	return fieldKeys[f]
}

// Label returns the column header used by exports.
func (f Field) Label() string {
	if f < 0 || int(f) >= len(fieldLabels) {
		return ""
	}
	return fieldLabels[f]
}

func (f Field) String() string { return f.Key() }

// Labels returns the export column headers in field order.
func Labels() []string {
	out := make([]string, len(fieldLabels))
	copy(out, fieldLabels[:])
	return out
}

// Record is the result of an extraction. An empty string means the field was not found.
type Record struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedIn"`
}

// Get returns the value of a single field.
func (r Record) Get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldEmail:
		return r.Email
	case FieldPhone:
		return r.Phone
	case FieldLocation:
		return r.Location
	case FieldLinkedIn:
		return r.LinkedIn
	default:
		return ""
	}
}

// With returns a copy of r with field f set to value.
func (r Record) With(f Field, value string) Record {
	switch f {
	case FieldName:
		r.Name = value
	case FieldEmail:
		r.Email = value
	case FieldPhone:
		r.Phone = value
	case FieldLocation:
		r.Location = value
	case FieldLinkedIn:
		r.LinkedIn = value
	}
	return r
}

// Values returns the five values in export order.
func (r Record) Values() []string {
	return []string{r.Name, r.Email, r.Phone, r.Location, r.LinkedIn}
}

// FieldsFound lists the non-empty fields in export order.
func (r Record) FieldsFound() []Field {
	var out []Field
	for _, f := range Fields() {
		if r.Get(f) != "" {
			out = append(out, f)
		}
	}
	return out
}

// IsEmpty reports whether no field was found.
func (r Record) IsEmpty() bool {
	return len(r.FieldsFound()) == 0
}
