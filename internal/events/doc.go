// Package events carries the outbound notifications of the tracker.
//
// Services emit events without knowing which handlers will process them.
// Two event types exist:
//   - achievement.fired: a celebratory achievement detected for a user
//   - goal.updated: a goal whose progress, milestones or state changed
//
// Achievement detection fires again on every run, so the sink decides what
// the user actually sees. DailyDeduplicator is the handler wrapper that
// drops repeats of the same achievement on the same day.
package events
