// Package mocks provides generated test doubles for the console's ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks.
// The mocks are generated using go:generate directives and provide a fluent
// API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	store := mocks.NewMockTokenStore(ctrl)
//	store.EXPECT().Load(gomock.Any()).Return(gymapi.TokenPair{}, nil)
package mocks

// Generate mock for the session token store.
// This creates MockTokenStore with methods: Save, Load, Clear
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=token_store_mock.go github.com/gymflow/console/internal/session TokenStore

// Generate mock for the slice of the API client the session manager drives.
// This creates MockAuthAPI with methods: Login, SetAuthToken, ClearAuthToken
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_api_mock.go github.com/gymflow/console/internal/session AuthAPI
