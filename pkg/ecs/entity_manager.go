package ecs

import (
	"reflect"
	"slices"
)

// EntityID 是实体的唯一标识符
// 场景图中的每个节点（相机、灯光、柱体、标签）都是一个实体
type EntityID uint64

// InvalidEntity 表示"无实体"，例如根节点的父节点
const InvalidEntity EntityID = 0

// componentStore 同一类型组件的存储: EntityID -> 组件实例
type componentStore map[EntityID]any

// EntityManager 管理所有实体和组件
//
// 场景重建时整体替换 EntityManager，因此实体只增不删。
// 组件按类型分列存储，查询时从最小的一列开始过滤。
// 场景规模很小（几十个节点），但每帧会查询多次。
type EntityManager struct {
	nextID EntityID
	alive  map[EntityID]struct{}
	stores map[reflect.Type]componentStore
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID: 1, // 0 保留为 InvalidEntity
		alive:  make(map[EntityID]struct{}),
		stores: make(map[reflect.Type]componentStore),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := em.nextID
	em.nextID++
	em.alive[id] = struct{}{}
	return id
}

// Exists 检查实体是否已创建
func (em *EntityManager) Exists(id EntityID) bool {
	_, ok := em.alive[id]
	return ok
}

// EntityCount 返回当前存活的实体数量
func (em *EntityManager) EntityCount() int {
	return len(em.alive)
}

// Entities 返回所有存活实体，按创建顺序
func (em *EntityManager) Entities() []EntityID {
	ids := make([]EntityID, 0, len(em.alive))
	for id := range em.alive {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// AddComponent 为实体添加组件，同类型组件会被替换
// 对不存在的实体无效
func (em *EntityManager) AddComponent(id EntityID, component any) {
	if !em.Exists(id) || component == nil {
		return
	}
	t := reflect.TypeOf(component)
	store, ok := em.stores[t]
	if !ok {
		store = make(componentStore)
		em.stores[t] = store
	}
	store[id] = component
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (any, bool) {
	store, ok := em.stores[componentType]
	if !ok {
		return nil, false
	}
	comp, ok := store[id]
	return comp, ok
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	_, ok := em.GetComponent(id, componentType)
	return ok
}

// GetEntitiesWith 查询拥有全部指定组件类型的实体
// 返回按ID升序（即创建顺序），保证每帧的系统遍历顺序稳定
// 不传类型时返回所有存活实体
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	if len(componentTypes) == 0 {
		return em.Entities()
	}

	stores := make([]componentStore, 0, len(componentTypes))
	for _, ct := range componentTypes {
		store, ok := em.stores[ct]
		if !ok || len(store) == 0 {
			return []EntityID{}
		}
		stores = append(stores, store)
	}
	slices.SortFunc(stores, func(a, b componentStore) int { return len(a) - len(b) })

	result := make([]EntityID, 0, len(stores[0]))
	for id := range stores[0] {
		hasAll := true
		for _, store := range stores[1:] {
			if _, ok := store[id]; !ok {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}

	slices.Sort(result)
	return result
}
