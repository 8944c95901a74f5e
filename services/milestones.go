// services/milestones.go - Milestone engine wiring
package services

import (
	"log"

	"paceline/milestones"
)

var milestoneEngine *milestones.Engine

// InitMilestoneEngine builds the singleton engine over the durable key-value
// store and the outward notification sink.
func InitMilestoneEngine(kv milestones.KeyValueStore, sink milestones.NotificationSink) {
	milestoneEngine = milestones.NewEngine(kv, sink)
	log.Printf("✅ Milestone engine initialized with %d definitions", len(milestones.Definitions()))
}

// GetMilestoneEngine returns the initialized engine.
func GetMilestoneEngine() *milestones.Engine {
	if milestoneEngine == nil {
		log.Fatal("Milestone engine not initialized. Call InitMilestoneEngine() first.")
	}
	return milestoneEngine
}
