package tokens

import "github.com/golang-jwt/jwt/v5"

func RefreshClaimsFromToken(tokenStr string, refreshSecret []byte) (*RefreshClaims, error) {
	var claims RefreshClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, keyFunc(refreshSecret))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Type != TypeRefresh || claims.ID == "" {
		return nil, ErrWrongTokenType
	}
	return &claims, nil
}

func SignRefresh(claims RefreshClaims, refreshSecret []byte) (string, error) {
	claims.Type = TypeRefresh
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(refreshSecret)
}
