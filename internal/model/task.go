package model

// DefaultTaskIDs are the rewardable tasks attempted for every account, in order.
var DefaultTaskIDs = []string{
	"task_7",
	"7BhNEc96WsnmuMNzmBxRkY",
	"76jEJCJA39SbpVfP6ChZVr",
	"cipc9RATyK7YuEiX8K9CSu",
	"8bUM49oxix8BUsGFPHAqFo",
	"eShDNGxXovy2mjXy3Gmc7Y",
	"qrpuXu1XBkiqp3fX7WkJMZ",
}
