package books

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

type expenseLine struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category_name"`
	Date     string  `json:"txn_date"`
}

type listExpensesResponse struct {
	Expenses []expenseLine `json:"expenses"`
}
