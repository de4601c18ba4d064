package services

import "github.com/mikelady/voicegit/internal/models"

// SeedRecords returns the example records a fresh store starts with, newest first
func SeedRecords() []models.CommitRecord {
	return []models.CommitRecord{
		{
			ID:            "1",
			Author:        "Sarah Chen",
			Date:          "2024-03-15",
			Cost:          "$12.50",
			Transcript:    "Fixed the authentication bug in the login middleware that was causing 500 errors",
			CommitMessage: "fix(auth): resolve token validation error in login middleware",
			Status:        models.StatusCompleted,
		},
		{
			ID:            "2",
			Author:        "Marcus Rodriguez",
			Date:          "2024-03-14",
			Cost:          "$8.75",
			Transcript:    "Added new feature for dark mode toggle in the settings panel",
			CommitMessage: "feat(ui): implement dark mode toggle in settings",
			Status:        models.StatusCompleted,
		},
		{
			ID:            "3",
			Author:        "Emily Watson",
			Date:          "2024-03-13",
			Cost:          "$15.20",
			Transcript:    "Refactored the database connection pool to improve performance",
			CommitMessage: "perf(db): optimize connection pool handling",
			Status:        models.StatusCompleted,
		},
		{
			ID:            "4",
			Author:        "David Kim",
			Date:          "2024-03-12",
			Cost:          "$6.50",
			Transcript:    "Updated the README with installation instructions",
			CommitMessage: "docs(readme): add detailed installation guide",
			Status:        models.StatusCompleted,
		},
		{
			ID:            "5",
			Author:        "Lisa Thompson",
			Date:          "2024-03-11",
			Cost:          "$22.00",
			Transcript:    "Implemented the new payment gateway integration with Stripe",
			CommitMessage: "feat(payment): integrate Stripe payment processing",
			Status:        models.StatusCompleted,
		},
		{
			ID:            "6",
			Author:        "James Wilson",
			Date:          "2024-03-10",
			Cost:          "$9.99",
			Transcript:    "Fixed CSS alignment issues in the mobile navigation menu",
			CommitMessage: "style(nav): fix mobile menu alignment",
			Status:        models.StatusCompleted,
		},
		{
			ID:            "7",
			Author:        "Anna Martinez",
			Date:          "2024-03-09",
			Cost:          "$18.45",
			Transcript:    "Added comprehensive test suite for user authentication flows",
			CommitMessage: "test(auth): add unit tests for authentication flows",
			Status:        models.StatusCompleted,
		},
		{
			ID:            "8",
			Author:        "Michael Brown",
			Date:          "2024-03-08",
			Cost:          "$11.30",
			Transcript:    "Removed deprecated API endpoints from version 1",
			CommitMessage: "chore(api): remove deprecated v1 endpoints",
			Status:        models.StatusCompleted,
		},
	}
}
