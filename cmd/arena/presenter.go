package main

import "fmt"

// consolePresenter prints notifications as they are flushed.
type consolePresenter struct {
	bossName string
}

func (p *consolePresenter) OnRoomEntered(roomIndex, endlessWave int) {
	if endlessWave > 0 {
		printReady(fmt.Sprintf("room %d (endless wave %d)", roomIndex, endlessWave))
		return
	}
	printReady(fmt.Sprintf("room %d", roomIndex))
}

func (p *consolePresenter) OnRoomCleared(roomIndex int, collected int64) {
	printOK(fmt.Sprintf("room %d cleared, +%d currency", roomIndex, collected))
}

func (p *consolePresenter) OnBossSpawned(id, name string) {
	p.bossName = name
	fmt.Printf("  \033[31m!\033[0m boss %s (%s)\n", name, id)
}

func (p *consolePresenter) OnShowBossHealth(cur, max float64, name string) {}

func (p *consolePresenter) OnHideBossHealth() {
	if p.bossName != "" {
		fmt.Printf("  \033[90m%s down\033[0m\n", p.bossName)
		p.bossName = ""
	}
}

func (p *consolePresenter) OnBombExplosion(x, y, radius, damage float64) {}

func (p *consolePresenter) OnPortalOpened(x, y float64) {
	fmt.Printf("  \033[90mportal at (%.0f, %.0f)\033[0m\n", x, y)
}

func (p *consolePresenter) OnVictory() {
	printOK("victory")
}
