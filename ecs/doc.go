// Package ecs provides ECS adapters for splash library notifications.
//
// The primary adapter is [NewDonburiSink], which mirrors every library
// object as a [Donburi] entity carrying an [ObjectData] component and
// republishes each notification (create, delete, show, hide, pointer over,
// click, out) as a typed event. Subscribe to [NotificationEvent] in your ECS
// systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	engine.Library().SetNotificationSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
