// ABOUTME: The fixed evaluation scenario set for the retention decision twin
// ABOUTME: Fifteen cohort-retention queries covering distinct churn situations
package eval

import "github.com/yashraj10/retention-rag/internal/models"

// Scenarios returns the evaluation set in its fixed run order. The ids are
// stable so results stay comparable across runs.
func Scenarios() []models.Scenario {
	return []models.Scenario{
		{ID: "s01", Query: "A cohort has declining weekly engagement and a 10-day inactivity gap. Budget is limited. What should we do next?"},
		{ID: "s02", Query: "New users are dropping off after the first session. Onboarding completion rate is only 30%. What retention action should we take?"},
		{ID: "s03", Query: "Power users who previously logged in daily have reduced usage to once a week over the past month. What do you recommend?"},
		{ID: "s04", Query: "We're seeing high churn among users who signed up during a promotional campaign. Many never used the core feature. What should we do?"},
		{ID: "s05", Query: "A cohort of users hasn't opened the app in 30 days but they have high lifetime value. Budget is available. What's the best action?"},
		{ID: "s06", Query: "Users are engaging with content but not converting to paid plans. Trial-to-paid rate is 5%. What retention approach works here?"},
		{ID: "s07", Query: "A segment of users complains frequently in support tickets but keeps using the product. Engagement is stable. What should we do?"},
		{ID: "s08", Query: "First-week retention is 60% but drops to 20% by week four. We don't know which features correlate with retention. What's the move?"},
		{ID: "s09", Query: "Push notification open rates have dropped 40% over 3 months for our most active cohort. What should we change?"},
		{ID: "s10", Query: "Users in a specific geography are churning at 2x the global rate. We have localized content but limited local support. Recommendations?"},
		{ID: "s11", Query: "A B2B SaaS cohort has low feature adoption across 3 key modules. Account managers report confusion during onboarding. What action?"},
		{ID: "s12", Query: "Seasonal users return every December but churn by February. We want to extend their lifecycle. What's the strategy?"},
		{ID: "s13", Query: "Free tier users who hit usage limits either churn or upgrade. 70% churn. How should we intervene before they hit the wall?"},
		{ID: "s14", Query: "Our reactivation emails have a 2% conversion rate. A cohort of 50k lapsed users hasn't engaged in 60+ days. Worth re-engaging?"},
		{ID: "s15", Query: "We launched a new feature but adoption is only 8% after 2 weeks. Existing users seem unaware of it. What should we do?"},
	}
}
