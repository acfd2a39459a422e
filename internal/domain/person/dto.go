package person

type PersonResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Division    string `json:"division"`
	Role        Role   `json:"role"`
}

func ToResponse(p Person) PersonResponse {
	return PersonResponse{
		ID:          p.ID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		Division:    p.Division,
		Role:        p.Role,
	}
}
