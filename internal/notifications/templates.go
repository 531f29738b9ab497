package notifications

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// message is a delivery-ready notification in both supported languages.
type message struct {
	Type        enums.NotificationType
	Title       string
	TitleAr     string
	Body        string
	BodyAr      string
	ReferenceID uuid.UUID
}

func orderMessage(order *models.Order) message {
	msg := message{
		Type:        enums.NotificationTypeGrocery,
		ReferenceID: order.ID,
	}
	switch order.Status {
	case enums.OrderStatusPending:
		msg.Title = "Order received"
		msg.TitleAr = "تم استلام الطلب"
		msg.Body = fmt.Sprintf("Your order %s has been received and is awaiting processing.", order.OrderNumber)
		msg.BodyAr = fmt.Sprintf("تم استلام طلبك %s وهو بانتظار المعالجة.", order.OrderNumber)
	case enums.OrderStatusProcessing:
		msg.Title = "Order being prepared"
		msg.TitleAr = "جاري تجهيز الطلب"
		msg.Body = fmt.Sprintf("Your order %s is being prepared.", order.OrderNumber)
		msg.BodyAr = fmt.Sprintf("جاري تجهيز طلبك %s.", order.OrderNumber)
	case enums.OrderStatusReady:
		msg.Title = "Order ready for pickup"
		msg.TitleAr = "الطلب جاهز للاستلام"
		msg.Body = fmt.Sprintf("Your order %s is ready for pickup.", order.OrderNumber)
		msg.BodyAr = fmt.Sprintf("طلبك %s جاهز للاستلام.", order.OrderNumber)
	case enums.OrderStatusDelivered:
		msg.Title = "Order delivered"
		msg.TitleAr = "تم تسليم الطلب"
		msg.Body = fmt.Sprintf("Your order %s has been delivered. Total: %s.", order.OrderNumber, order.TotalAmount.StringFixed(2))
		msg.BodyAr = fmt.Sprintf("تم تسليم طلبك %s. الإجمالي: %s.", order.OrderNumber, order.TotalAmount.StringFixed(2))
	case enums.OrderStatusCancelled:
		msg.Title = "Order cancelled"
		msg.TitleAr = "تم إلغاء الطلب"
		msg.Body = fmt.Sprintf("Your order %s has been cancelled.", order.OrderNumber)
		msg.BodyAr = fmt.Sprintf("تم إلغاء طلبك %s.", order.OrderNumber)
	default:
		msg.Title = "Order updated"
		msg.TitleAr = "تم تحديث الطلب"
		msg.Body = fmt.Sprintf("Your order %s status is now %s.", order.OrderNumber, order.Status)
		msg.BodyAr = fmt.Sprintf("حالة طلبك %s الآن %s.", order.OrderNumber, order.Status)
	}
	return msg
}

func invoiceIssuedMessage(invoice *models.Invoice) message {
	return message{
		Type:        enums.NotificationTypeInvoice,
		ReferenceID: invoice.ID,
		Title:       "New invoice",
		TitleAr:     "فاتورة جديدة",
		Body: fmt.Sprintf("Invoice %s for %s is due on %s.",
			invoice.InvoiceNumber, invoice.Amount.StringFixed(2), invoice.DueDate.Format("2006-01-02")),
		BodyAr: fmt.Sprintf("فاتورة %s بمبلغ %s مستحقة بتاريخ %s.",
			invoice.InvoiceNumber, invoice.Amount.StringFixed(2), invoice.DueDate.Format("2006-01-02")),
	}
}

func invoicePaidMessage(invoice *models.Invoice) message {
	return message{
		Type:        enums.NotificationTypeInvoice,
		ReferenceID: invoice.ID,
		Title:       "Payment recorded",
		TitleAr:     "تم تسجيل الدفع",
		Body:        fmt.Sprintf("Payment of %s for invoice %s has been recorded.", invoice.Amount.StringFixed(2), invoice.InvoiceNumber),
		BodyAr:      fmt.Sprintf("تم تسجيل دفع مبلغ %s للفاتورة %s.", invoice.Amount.StringFixed(2), invoice.InvoiceNumber),
	}
}

func ticketMessage(ticket *models.MaintenanceTicket) message {
	msg := message{
		Type:        enums.NotificationTypeMaintenance,
		ReferenceID: ticket.ID,
	}
	switch ticket.Status {
	case enums.TicketStatusPending:
		msg.Title = "Maintenance request received"
		msg.TitleAr = "تم استلام طلب الصيانة"
		msg.Body = fmt.Sprintf("Your request %q has been received.", ticket.Title)
		msg.BodyAr = fmt.Sprintf("تم استلام طلبك %q.", ticket.Title)
	case enums.TicketStatusInProgress:
		msg.Title = "Maintenance in progress"
		msg.TitleAr = "الصيانة قيد التنفيذ"
		msg.Body = fmt.Sprintf("Work on your request %q has started.", ticket.Title)
		msg.BodyAr = fmt.Sprintf("بدأ العمل على طلبك %q.", ticket.Title)
	case enums.TicketStatusCompleted:
		msg.Title = "Maintenance completed"
		msg.TitleAr = "اكتملت الصيانة"
		msg.Body = fmt.Sprintf("Your request %q has been completed.", ticket.Title)
		msg.BodyAr = fmt.Sprintf("اكتمل طلبك %q.", ticket.Title)
	case enums.TicketStatusCancelled:
		msg.Title = "Maintenance request cancelled"
		msg.TitleAr = "تم إلغاء طلب الصيانة"
		msg.Body = fmt.Sprintf("Your request %q has been cancelled.", ticket.Title)
		msg.BodyAr = fmt.Sprintf("تم إلغاء طلبك %q.", ticket.Title)
	default:
		msg.Title = "Maintenance request updated"
		msg.TitleAr = "تم تحديث طلب الصيانة"
		msg.Body = fmt.Sprintf("Your request %q status is now %s.", ticket.Title, ticket.Status)
		msg.BodyAr = fmt.Sprintf("حالة طلبك %q الآن %s.", ticket.Title, ticket.Status)
	}
	return msg
}
