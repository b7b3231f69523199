package chat

import "strings"

type cannedReply struct {
	keywords []string
	reply    string
}

// First match wins, so order matters.
var cannedReplies = []cannedReply{
	{[]string{"حجز", "booking"}, "للحجز يمكنك زيارة صفحة الغرف Rooms أو التواصل معنا 👌"},
	{[]string{"سعر", "price"}, "الأسعار تختلف حسب نوع الغرفة — شاهدها في قسم Rooms."},
	{[]string{"غرف", "room"}, "لدينا عدة أنواع من الغرف — الفردية والمزدوجة والجناح الفاخر."},
	{[]string{"موقع", "location"}, "الفندق يقع بالقرب من وسط المدينة والمعالم السياحية."},
	{[]string{"مطعم", "اكل", "restaurant"}, "نعم، لدينا مطعم فاخر يقدم بوفيه وأكلات عالمية."},
	{[]string{"بسين", "pool"}, "نعم يوجد حمام سباحة خارجي بإطلالة جميلة."},
}

const defaultReply = "شكرًا لرسالتك 😊 كيف يمكنني مساعدتك؟"

// Fallback answers text from the local keyword table without a server.
func Fallback(text string) string {
	t := strings.ToLower(text)
	for _, c := range cannedReplies {
		for _, kw := range c.keywords {
			if strings.Contains(t, kw) {
				return c.reply
			}
		}
	}
	return defaultReply
}
