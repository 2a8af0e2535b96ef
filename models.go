package userforms

//go:generate go tool ormc

// LoginData is validated by the login form on the server side.
// ormc:formonly
type LoginData struct {
	Email    string
	Password string
}

// SignupData carries the signup form fields.
// ormc:formonly
type SignupData struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// ProfileData carries the editable profile fields. The avatar travels as a
// file part and is handled by MediaStore.
// ormc:formonly
type ProfileData struct {
	FirstName string
	LastName  string
	Email     string
}
