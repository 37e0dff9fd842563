package httptransport

type IssueTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
