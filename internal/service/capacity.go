package service

import (
	"strconv"

	"github.com/qs3c/water_go_server/internal/model"
	"github.com/qs3c/water_go_server/internal/model/dto"
)

// 容量引擎：时段占用与状态的唯一计算入口。单个时段详情、时段列表、
// 今日总览、用户当前时段都走这里，不允许各端各算一份。
// 全部为纯函数，无 I/O。

// EffectiveLiters 单条订阅计入容量的升数。
// 已取消的订阅不计入；加量只有审批通过才计入。
func EffectiveLiters(sub *model.SlotSubscription) int {
	if sub == nil || sub.Status == model.SubscriptionStatusCancelled {
		return 0
	}
	liters := sub.Quantity
	if sub.ExtraRequestStatus == model.ExtraRequestApproved {
		liters += sub.ExtraQuantity
	}
	return liters
}

// OccupiedLiters 时段当前占用升数
func OccupiedLiters(subs []*model.SlotSubscription) int {
	total := 0
	for _, sub := range subs {
		total += EffectiveLiters(sub)
	}
	return total
}

// BookingCount 未取消的订阅数
func BookingCount(subs []*model.SlotSubscription) int {
	count := 0
	for _, sub := range subs {
		if sub != nil && sub.Status != model.SubscriptionStatusCancelled {
			count++
		}
	}
	return count
}

// EffectiveStatus 时段实时状态。
// 存储状态为 closed 时是终态，不再计算；否则用占用升数对比容量：
// 满则 full，未满则 available。容量为 0 的时段不会因比值判满。
func EffectiveStatus(storedStatus string, capacity, occupiedLiters int) string {
	if storedStatus == model.SlotStatusClosed {
		return model.SlotStatusClosed
	}
	if capacity > 0 && occupiedLiters >= capacity {
		return model.SlotStatusFull
	}
	return model.SlotStatusAvailable
}

// ProgressPercentage 占用百分比，向下取整后转为整数字符串。
// 容量为 0 时返回 "0"。
func ProgressPercentage(capacity, occupiedLiters int) string {
	if capacity <= 0 {
		return "0"
	}
	return strconv.Itoa(occupiedLiters * 100 / capacity)
}

// UniqueCustomerCount 去重后的居民数。跨时段传入合并后的订阅集合，
// 同一居民订了当天两个时段只计一次；已取消的订阅不计。
func UniqueCustomerCount(subs []*model.SlotSubscription) int {
	seen := make(map[int64]struct{})
	for _, sub := range subs {
		if sub == nil || sub.Status == model.SubscriptionStatusCancelled {
			continue
		}
		seen[sub.CustomerID] = struct{}{}
	}
	return len(seen)
}

// ComputeStats 汇总单个时段的实时统计
func ComputeStats(slot *model.Slot, subs []*model.SlotSubscription) dto.SlotStats {
	occupied := OccupiedLiters(subs)
	return dto.SlotStats{
		OccupiedLiters:     occupied,
		BookedCount:        BookingCount(subs),
		Status:             EffectiveStatus(slot.Status, slot.Capacity, occupied),
		ProgressPercentage: ProgressPercentage(slot.Capacity, occupied),
	}
}
