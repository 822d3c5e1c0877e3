package domain

// EstimateTokens approximates the token count of text as
// ceil(len(text) / 4). The estimate is used for chunk budgeting and
// context packing only; it is not a provider contract.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}
