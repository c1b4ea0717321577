package ecs

import (
	"reflect"
	"testing"
)

type testTransformComponent struct {
	X, Y, Z float32
}

type testDrawableComponent struct {
	Alpha, Size float32
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	if id1 == id2 {
		t.Error("Entity IDs should be unique")
	}

	if id1 != 1 {
		t.Errorf("First entity ID should be 1, got %d", id1)
	}

	if id2 != 2 {
		t.Errorf("Second entity ID should be 2, got %d", id2)
	}
}

func TestAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	pos := &testTransformComponent{X: 100, Y: 200}
	em.AddComponent(id, pos)

	comp, found := em.GetComponent(id, reflect.TypeOf(&testTransformComponent{}))
	if !found {
		t.Error("Component should be found")
	}

	retrieved := comp.(*testTransformComponent)
	if retrieved.X != 100 || retrieved.Y != 200 {
		t.Errorf("Component data mismatch, expected (100, 200), got (%f, %f)", retrieved.X, retrieved.Y)
	}
}

func TestHasComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	if em.HasComponent(id, reflect.TypeOf(&testTransformComponent{})) {
		t.Error("Should not have component before adding")
	}

	em.AddComponent(id, &testTransformComponent{})

	if !em.HasComponent(id, reflect.TypeOf(&testTransformComponent{})) {
		t.Error("Should have component after adding")
	}
}

func TestGetEntitiesWith(t *testing.T) {
	em := NewEntityManager()

	id1 := em.CreateEntity()
	em.AddComponent(id1, &testTransformComponent{})
	em.AddComponent(id1, &testDrawableComponent{})

	id2 := em.CreateEntity()
	em.AddComponent(id2, &testTransformComponent{})

	id3 := em.CreateEntity()
	em.AddComponent(id3, &testDrawableComponent{})

	// 查询拥有 Transform+Drawable 的实体
	entities := em.GetEntitiesWith(
		reflect.TypeOf(&testTransformComponent{}),
		reflect.TypeOf(&testDrawableComponent{}),
	)

	if len(entities) != 1 {
		t.Errorf("Expected 1 entity with both components, got %d", len(entities))
	}

	if len(entities) > 0 && entities[0] != id1 {
		t.Error("Query should return only id1")
	}

	// 查询拥有 Transform 的实体
	posEntities := em.GetEntitiesWith(reflect.TypeOf(&testTransformComponent{}))
	if len(posEntities) != 2 {
		t.Errorf("Expected 2 entities with Transform component, got %d", len(posEntities))
	}
}

func TestMultipleComponentTypes(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	em.AddComponent(id, &testTransformComponent{X: 10, Y: 20})
	em.AddComponent(id, &testDrawableComponent{Alpha: 5, Size: 10})

	posComp, found := em.GetComponent(id, reflect.TypeOf(&testTransformComponent{}))
	if !found {
		t.Error("Transform component should be found")
	}
	pos := posComp.(*testTransformComponent)
	if pos.X != 10 || pos.Y != 20 {
		t.Error("Transform component data mismatch")
	}

	velComp, found := em.GetComponent(id, reflect.TypeOf(&testDrawableComponent{}))
	if !found {
		t.Error("Drawable component should be found")
	}
	vel := velComp.(*testDrawableComponent)
	if vel.Alpha != 5 || vel.Size != 10 {
		t.Error("Drawable component data mismatch")
	}
}

func TestGetEntitiesWithSortedOrder(t *testing.T) {
	em := NewEntityManager()

	ids := make([]EntityID, 0, 20)
	for i := 0; i < 20; i++ {
		id := em.CreateEntity()
		em.AddComponent(id, &testTransformComponent{X: float32(i)})
		ids = append(ids, id)
	}

	// 多次查询顺序都应与创建顺序一致
	for round := 0; round < 5; round++ {
		got := em.GetEntitiesWith(reflect.TypeOf(&testTransformComponent{}))
		if len(got) != len(ids) {
			t.Fatalf("Expected %d entities, got %d", len(ids), len(got))
		}
		for i := range ids {
			if got[i] != ids[i] {
				t.Fatalf("Round %d: index %d expected %d, got %d", round, i, ids[i], got[i])
			}
		}
	}
}

func TestGenericHelpers(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testTransformComponent{X: 1, Y: 2, Z: 3})

	tr, ok := GetComponent[*testTransformComponent](em, id)
	if !ok {
		t.Fatal("GetComponent should find the transform")
	}
	if tr.Z != 3 {
		t.Errorf("Expected Z=3, got %f", tr.Z)
	}

	if HasComponent[*testDrawableComponent](em, id) {
		t.Error("Entity should not have a drawable yet")
	}

	AddComponent(em, id, &testDrawableComponent{Alpha: 0.9})
	if got := GetEntitiesWith2[*testTransformComponent, *testDrawableComponent](em); len(got) != 1 || got[0] != id {
		t.Errorf("GetEntitiesWith2 = %v, expected [%d]", got, id)
	}

	if got := GetEntitiesWith1[*testDrawableComponent](em); len(got) != 1 {
		t.Errorf("GetEntitiesWith1 = %v, expected one drawable", got)
	}

	// 不存在的实体
	if _, ok := GetComponent[*testTransformComponent](em, 999); ok {
		t.Error("GetComponent on unknown entity should fail")
	}
}

func TestExistsAndEntityCount(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.CreateEntity()

	if !em.Exists(id) {
		t.Error("Entity should exist after creation")
	}
	if em.Exists(InvalidEntity) {
		t.Error("InvalidEntity should never exist")
	}
	if em.EntityCount() != 2 {
		t.Errorf("Expected 2 entities, got %d", em.EntityCount())
	}

	if em.Exists(id + 5) {
		t.Error("IDs that were never handed out should not exist")
	}
}

func TestAddComponentToUnknownEntityIsIgnored(t *testing.T) {
	em := NewEntityManager()
	em.AddComponent(42, &testTransformComponent{})

	if em.Exists(42) {
		t.Error("AddComponent must not create entities")
	}
	if got := em.GetEntitiesWith(reflect.TypeOf(&testTransformComponent{})); len(got) != 0 {
		t.Errorf("Expected no entities, got %v", got)
	}
}

func TestAddComponentReplacesSameType(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	AddComponent(em, id, &testTransformComponent{X: 1})
	AddComponent(em, id, &testTransformComponent{X: 2})

	tr, _ := GetComponent[*testTransformComponent](em, id)
	if tr.X != 2 {
		t.Errorf("Expected replaced component X=2, got %f", tr.X)
	}
}

func TestGetEntitiesWithNoTypesReturnsAll(t *testing.T) {
	em := NewEntityManager()
	a := em.CreateEntity()
	b := em.CreateEntity()
	em.AddComponent(b, &testDrawableComponent{})

	got := em.GetEntitiesWith()
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("GetEntitiesWith() = %v, expected [%d %d]", got, a, b)
	}
}
