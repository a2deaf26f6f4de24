// Package domain contains the core entities and value objects shared by the
// nutrient adequacy and goal evaluation engines: user profiles, nutrient
// intakes and analyses, goals, log entries and achievement events. It is
// independent of any storage or delivery mechanism.
package domain
