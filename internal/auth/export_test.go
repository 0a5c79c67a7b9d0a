package auth

const (
	SessionKeyPrefix = sessionKeyPrefix
	TokensSetKey     = tokensSetKey
)

var SessionValue = sessionValue
