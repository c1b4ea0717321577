package game

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 用于重新创建场景（重启图表），避免 game 包依赖 scenes 包
type SceneFactory func() (Scene, error)

// SceneManager manages which scene is active and whether the application
// should exit. Only the current scene's Update and Draw are called.
type SceneManager struct {
	currentScene  Scene
	sceneFactory  SceneFactory
	exitRequested bool
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo or Reload to set one.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene to the provided scene.
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有则返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Reload 通过工厂函数重新创建场景并切换
// 失败时保留当前场景
func (sm *SceneManager) Reload() error {
	if sm.sceneFactory == nil {
		return fmt.Errorf("scene factory not set")
	}

	newScene, err := sm.sceneFactory()
	if err != nil {
		log.Printf("[SceneManager] 错误: 无法创建场景: %v", err)
		return fmt.Errorf("failed to create scene: %w", err)
	}
	sm.SwitchTo(newScene)
	log.Printf("[SceneManager] 场景已重新创建")
	return nil
}

// RequestExit 请求退出应用（下一次 Update 时生效）
func (sm *SceneManager) RequestExit() {
	log.Printf("[SceneManager] 收到退出请求")
	sm.exitRequested = true
}

// ExitRequested 是否已请求退出
func (sm *SceneManager) ExitRequested() bool {
	return sm.exitRequested
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
