package core

func SetRunMode(mode string) {
	RunMode = mode
	LocalMode = RunMode == RunModeLocal
}
