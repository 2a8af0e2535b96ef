package userforms

// Field describes one rendered input.
type Field struct {
	Name         string
	Label        string
	Type         string
	Placeholder  string
	Value        string
	Autocomplete string
	Accept       string
	Required     bool
	AutoFocus    bool
	MinLength    int
}

// Input names shared by the forms. They match the schema names of the form
// data types.
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldAvatar    = "avatar"
)

func loginData(sub *FormSubmission) *LoginData {
	return &LoginData{Email: sub.Get(FieldEmail), Password: sub.Raw(FieldPassword)}
}

func signupData(sub *FormSubmission) *SignupData {
	return &SignupData{
		FirstName: sub.Get(FieldFirstName),
		LastName:  sub.Get(FieldLastName),
		Email:     sub.Get(FieldEmail),
		Password:  sub.Raw(FieldPassword),
	}
}

func profileData(sub *FormSubmission) *ProfileData {
	return &ProfileData{
		FirstName: sub.Get(FieldFirstName),
		LastName:  sub.Get(FieldLastName),
		Email:     sub.Get(FieldEmail),
	}
}
