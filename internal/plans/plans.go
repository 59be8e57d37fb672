// Package plans defines the subscription tiers and the limits they grant.
package plans

import "fmt"

type PlanType string

const (
	PlanFree    PlanType = "free"
	PlanStarter PlanType = "starter"
	PlanPro     PlanType = "pro"
)

func (p PlanType) Valid() bool {
	switch p {
	case PlanFree, PlanStarter, PlanPro:
		return true
	}
	return false
}

// Unlimited marks a limit with no cap.
const Unlimited = -1

type PlanLimits struct {
	GenerationsPerMonth int  `json:"generationsPerMonth"`
	MaxHistoryFlows     int  `json:"maxHistoryFlows"`
	ExportEnabled       bool `json:"exportEnabled"`
}

var planLimits = map[PlanType]PlanLimits{
	PlanFree: {
		GenerationsPerMonth: 5,
		MaxHistoryFlows:     10,
		ExportEnabled:       false,
	},
	PlanStarter: {
		GenerationsPerMonth: 50,
		MaxHistoryFlows:     100,
		ExportEnabled:       true,
	},
	PlanPro: {
		GenerationsPerMonth: Unlimited,
		MaxHistoryFlows:     Unlimited,
		ExportEnabled:       true,
	},
}

var planNames = map[PlanType]string{
	PlanFree:    "Free",
	PlanStarter: "Starter",
	PlanPro:     "Pro",
}

var planPrices = map[PlanType]float64{
	PlanFree:    0,
	PlanStarter: 4.99,
	PlanPro:     9.99,
}

// Limits returns the limits for a plan; unknown tiers get the free limits.
func Limits(p PlanType) PlanLimits {
	if l, ok := planLimits[p]; ok {
		return l
	}
	return planLimits[PlanFree]
}

func Name(p PlanType) string {
	if n, ok := planNames[p]; ok {
		return n
	}
	return planNames[PlanFree]
}

func MonthlyPrice(p PlanType) float64 {
	return planPrices[p]
}

// CanGenerate decides, before any provider call, whether a user with the
// given monthly usage may run another generation.
func CanGenerate(p PlanType, usedThisMonth int) (bool, string) {
	limits := Limits(p)
	if limits.GenerationsPerMonth == Unlimited {
		return true, ""
	}
	if usedThisMonth >= limits.GenerationsPerMonth {
		return false, fmt.Sprintf(
			"You've reached your monthly limit of %d generations. Upgrade to generate more flows.",
			limits.GenerationsPerMonth)
	}
	return true, ""
}

// RemainingGenerations returns how many generations are left this month,
// or Unlimited.
func RemainingGenerations(p PlanType, usedThisMonth int) int {
	limits := Limits(p)
	if limits.GenerationsPerMonth == Unlimited {
		return Unlimited
	}
	remaining := limits.GenerationsPerMonth - usedThisMonth
	if remaining < 0 {
		return 0
	}
	return remaining
}
