package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var parser = jwt.NewParser()

// AccessExpiry reads the exp claim from an access token without verifying
// its signature. The zero time is returned for tokens without an exp claim.
//
// AccessExpiry may return an error when input validation, dependency calls, or security checks fail.
// AccessExpiry does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func AccessExpiry(access string) (time.Time, error) {
	claims := jwt.MapClaims{}

	if _, _, err := parser.ParseUnverified(access, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse access token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("read exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, nil
	}

	return exp.Time, nil
}

// Subject reads the sub claim from an access token without verifying its
// signature.
//
// Subject may return an error when input validation, dependency calls, or security checks fail.
// Subject does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func Subject(access string) (string, error) {
	claims := jwt.MapClaims{}

	if _, _, err := parser.ParseUnverified(access, claims); err != nil {
		return "", fmt.Errorf("parse access token: %w", err)
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("read sub claim: %w", err)
	}

	return sub, nil
}
