package combine

// amountPairs lists numeral + counter sequences that the dictionary holds
// as single words, mostly because their reading is irregular.
var amountPairs = map[[2]string]bool{
	{"一", "人"}: true, {"二", "人"}: true,
	{"一", "つ"}: true, {"二", "つ"}: true, {"三", "つ"}: true,
	{"四", "つ"}: true, {"五", "つ"}: true, {"六", "つ"}: true,
	{"七", "つ"}: true, {"八", "つ"}: true, {"九", "つ"}: true,
	{"一", "日"}: true, {"二", "日"}: true, {"三", "日"}: true,
	{"四", "日"}: true, {"五", "日"}: true, {"六", "日"}: true,
	{"七", "日"}: true, {"八", "日"}: true, {"九", "日"}: true,
	{"十", "日"}: true, {"二十", "日"}: true, {"二十", "歳"}: true,
	{"一", "番"}: true, {"一", "緒"}: true, {"一", "応"}: true,
	{"一", "体"}: true, {"一", "気"}: true, {"一", "生"}: true,
	{"一", "方"}: true, {"一", "度"}: true, {"一", "杯"}: true,
	{"一", "部"}: true, {"一", "瞬"}: true, {"一", "種"}: true,
	{"一", "層"}: true, {"一", "旦"}: true, {"一", "般"}: true,
	{"一", "時"}: true, {"十", "分"}: true, {"二", "十"}: true,
	{"百", "万"}: true, {"千", "万"}: true,
}
