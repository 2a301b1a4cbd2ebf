package resultsfeed

import (
	"context"
	"sync"
)

// MockClient is a mock results feed client for testing
type MockClient struct {
	mu              sync.Mutex
	participants    []Participant
	results         []Result
	baseURL         string
	token           string
	participantsErr error
	resultsErr      error
	resultsCalls    int
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithParticipants sets the participants to return
func WithParticipants(participants []Participant) MockOption {
	return func(m *MockClient) {
		m.participants = participants
	}
}

// WithParticipantsError sets an error to return from FetchParticipants
func WithParticipantsError(err error) MockOption {
	return func(m *MockClient) {
		m.participantsErr = err
	}
}

// WithResults sets the results to return
func WithResults(results []Result) MockOption {
	return func(m *MockClient) {
		m.results = results
	}
}

// WithResultsError sets an error to return from FetchResults
func WithResultsError(err error) MockOption {
	return func(m *MockClient) {
		m.resultsErr = err
	}
}

// WithBaseURL sets the base URL
func WithBaseURL(url string) MockOption {
	return func(m *MockClient) {
		m.baseURL = url
	}
}

// NewMockClient creates a new mock results feed client
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{
		baseURL:      "http://mock-results.local",
		participants: DefaultMockParticipants(),
		results:      DefaultMockResults(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BaseURL returns the configured base URL
func (m *MockClient) BaseURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseURL
}

// SetBaseURL updates the base URL
func (m *MockClient) SetBaseURL(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseURL = url
}

// SetToken records the token
func (m *MockClient) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

// Token returns the last token set (for testing)
func (m *MockClient) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// FetchParticipants returns the configured participants or error
func (m *MockClient) FetchParticipants(ctx context.Context) ([]Participant, error) {
	if m.participantsErr != nil {
		return nil, m.participantsErr
	}
	return m.participants, nil
}

// FetchResults returns the configured results or error
func (m *MockClient) FetchResults(ctx context.Context) ([]Result, error) {
	m.mu.Lock()
	m.resultsCalls++
	m.mu.Unlock()
	if m.resultsErr != nil {
		return nil, m.resultsErr
	}
	return m.results, nil
}

// ResultsCalls returns how many times FetchResults was called (for testing)
func (m *MockClient) ResultsCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resultsCalls
}

// DefaultMockParticipants returns a small grand final line-up for testing
func DefaultMockParticipants() []Participant {
	return []Participant{
		{CountryCode: "SE", Country: "Sweden", Artist: "Loreen", Song: "Tattoo", RunningOrder: 1},
		{CountryCode: "FI", Country: "Finland", Artist: "Käärijä", Song: "Cha Cha Cha", RunningOrder: 2},
		{CountryCode: "IL", Country: "Israel", Artist: "Noa Kirel", Song: "Unicorn", RunningOrder: 3},
		{CountryCode: "IT", Country: "Italy", Artist: "Marco Mengoni", Song: "Due vite", RunningOrder: 4},
		{CountryCode: "NO", Country: "Norway", Artist: "Alessandra", Song: "Queen of Kings", RunningOrder: 5},
	}
}

// DefaultMockResults returns official placings matching DefaultMockParticipants
func DefaultMockResults() []Result {
	return []Result{
		{CountryCode: "SE", Country: "Sweden", FinalRank: Rank(1), JuryRank: Rank(1), TelevoteRank: Rank(2)},
		{CountryCode: "FI", Country: "Finland", FinalRank: Rank(2), JuryRank: Rank(4), TelevoteRank: Rank(1)},
		{CountryCode: "IL", Country: "Israel", FinalRank: Rank(3), JuryRank: Rank(6), TelevoteRank: Rank(3)},
		{CountryCode: "IT", Country: "Italy", FinalRank: Rank(4), JuryRank: Rank(3), TelevoteRank: Rank(4)},
		{CountryCode: "NO", Country: "Norway", FinalRank: Rank(5), JuryRank: Rank(12), TelevoteRank: Rank(5)},
	}
}

// Ensure MockClient implements Client
var _ Client = (*MockClient)(nil)
