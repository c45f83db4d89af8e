package storage

import "time"

type Candidate struct {
	ID             string    `dynamodbav:"PK"`
	Name           string    `dynamodbav:"Name"`
	Nationality    string    `dynamodbav:"Nationality"`
	ProfilePicture string    `dynamodbav:"ProfilePicture"`
	CreatedAt      time.Time `dynamodbav:"CreatedAt"`
}

type Coupon struct {
	ID                      string    `dynamodbav:"PK"`
	Name                    string    `dynamodbav:"Name"`
	Votes                   int       `dynamodbav:"Votes"`
	EligibleCandidateCounts int       `dynamodbav:"EligibleCandidateCounts"`
	Pricing                 float64   `dynamodbav:"Pricing"`
	CreatedAt               time.Time `dynamodbav:"CreatedAt"`
}
