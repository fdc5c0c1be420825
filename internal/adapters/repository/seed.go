package repository

import (
	"fmt"

	"github.com/mergington/activities/internal/domain/model"
)

// DefaultSeed returns the activities the school starts every term with.
// A fresh slice is built on each call so callers may keep or mutate it.
func DefaultSeed() []model.Activity {
	return []model.Activity{
		{
			Name:            "Chess Club",
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		{
			Name:            "Programming Class",
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		{
			Name:            "Gym Class",
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
		{
			Name:            "Soccer Team",
			Description:     "Join the school soccer team and compete in local matches",
			Schedule:        "Wednesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 22,
			Participants:    []string{"lucas@mergington.edu", "mia@mergington.edu"},
		},
		{
			Name:            "Basketball Club",
			Description:     "Practice basketball skills and play friendly games",
			Schedule:        "Mondays, 3:30 PM - 5:00 PM",
			MaxParticipants: 15,
			Participants:    []string{"ethan@mergington.edu", "ava@mergington.edu"},
		},
		{
			Name:            "Art Workshop",
			Description:     "Explore painting, drawing, and sculpture techniques",
			Schedule:        "Thursdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 18,
			Participants:    []string{"isabella@mergington.edu", "liam@mergington.edu"},
		},
		{
			Name:            "Drama Club",
			Description:     "Act, direct, and produce school plays and performances",
			Schedule:        "Tuesdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 20,
			Participants:    []string{"charlotte@mergington.edu", "noah@mergington.edu"},
		},
		{
			Name:            "Mathletes",
			Description:     "Compete in math competitions and solve challenging problems",
			Schedule:        "Fridays, 4:00 PM - 5:00 PM",
			MaxParticipants: 10,
			Participants:    []string{"oliver@mergington.edu", "amelia@mergington.edu"},
		},
		{
			Name:            "Science Club",
			Description:     "Conduct experiments and explore scientific concepts",
			Schedule:        "Wednesdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 16,
			Participants:    []string{"elijah@mergington.edu", "harper@mergington.edu"},
		},
	}
}

// ValidateSeed checks names are present and unique and that no roster
// repeats an email.
func ValidateSeed(seed []model.Activity) error {
	names := make(map[string]struct{}, len(seed))
	for _, a := range seed {
		if a.Name == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidActivity)
		}
		if _, dup := names[a.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateActivity, a.Name)
		}
		names[a.Name] = struct{}{}

		seen := make(map[string]struct{}, len(a.Participants))
		for _, p := range a.Participants {
			if _, dup := seen[p]; dup {
				return fmt.Errorf("%w: %q in %q", ErrAlreadySignedUp, p, a.Name)
			}
			seen[p] = struct{}{}
		}
	}
	return nil
}
