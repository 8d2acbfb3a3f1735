package enums

import "fmt"

// Gender is the optional self-reported gender on a customer profile.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

var validGenders = []Gender{
	GenderMale,
	GenderFemale,
	GenderOther,
}

// String implements fmt.Stringer.
func (g Gender) String() string {
	return string(g)
}

// IsValid reports whether the value is a known Gender.
func (g Gender) IsValid() bool {
	for _, candidate := range validGenders {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGender converts raw input into a Gender.
func ParseGender(value string) (Gender, error) {
	for _, candidate := range validGenders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid gender %q", value)
}

// MaritalStatus is the optional marital status on a customer profile.
type MaritalStatus string

const (
	MaritalStatusSingle   MaritalStatus = "Single"
	MaritalStatusMarried  MaritalStatus = "Married"
	MaritalStatusDivorced MaritalStatus = "Divorced"
	MaritalStatusWidowed  MaritalStatus = "Widowed"
)

var validMaritalStatuses = []MaritalStatus{
	MaritalStatusSingle,
	MaritalStatusMarried,
	MaritalStatusDivorced,
	MaritalStatusWidowed,
}

func (m MaritalStatus) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MaritalStatus.
func (m MaritalStatus) IsValid() bool {
	for _, candidate := range validMaritalStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMaritalStatus converts raw input into a MaritalStatus.
func ParseMaritalStatus(value string) (MaritalStatus, error) {
	for _, candidate := range validMaritalStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid marital status %q", value)
}
