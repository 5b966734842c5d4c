package apiclient

// User is a registered user as listed by the remote API.
type User struct {
	ID                    int    `json:"id"`
	Name                  string `json:"name"`
	Email                 string `json:"email"`
	Phone                 string `json:"phone"`
	Position              string `json:"position"`
	PositionID            int    `json:"position_id"`
	RegistrationTimestamp int64  `json:"registration_timestamp"`
	Photo                 string `json:"photo"`
}

// Position is a job position a new user can pick.
type Position struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// UsersPage is one page of the paginated user listing.
type UsersPage struct {
	Users      []User `json:"users"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	TotalUsers int    `json:"total_users"`
	Count      int    `json:"count"`
}

// Photo is the binary image attached to a registration.
type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Submission is the payload of a user creation request.
type Submission struct {
	Name       string
	Email      string
	Phone      string
	PositionID int
	Photo      Photo
}

type positionsResponse struct {
	Success   bool       `json:"success"`
	Positions []Position `json:"positions"`
	Message   string     `json:"message"`
}

type tokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type createUserResponse struct {
	Success bool   `json:"success"`
	UserID  int    `json:"user_id"`
	Message string `json:"message"`
}

// errorResponse is the failure envelope shared by all endpoints.
type errorResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Fails   map[string][]string `json:"fails"`
}
